// Package frontend is the markup frontend: it parses HCL launch files into a
// launch.Description, resolving block kinds through the extension registry
// and wrapping every attribute expression as a lazily evaluated
// substitution. It talks to the engine exclusively through the public
// description and context construction API.
package frontend

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/fsutil"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/registry"
)

// Loader parses launch files into descriptions.
type Loader struct {
	registry *registry.Registry
	parser   *hclparse.Parser
}

// NewLoader creates a loader resolving block kinds against the given
// registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{
		registry: reg,
		parser:   hclparse.NewParser(),
	}
}

// Load reads a single launch file, or every .hcl file under a directory in
// lexical order, and returns the combined description.
func (l *Loader) Load(ctx context.Context, path string) (*launch.Description, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Launch file loader started.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat launch path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to discover launch files: %w", err)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no launch files found under %s", path)
	}
	logger.Debug("Discovered launch files.", "count", len(files))

	var entities []launch.Entity
	for _, file := range files {
		fileEntities, err := l.loadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		entities = append(entities, fileEntities...)
	}
	return launch.NewDescription(entities...), nil
}

// loadFile parses one file and builds the entities of its launch block.
func (l *Loader) loadFile(ctx context.Context, file string) ([]launch.Entity, error) {
	hclFile, diags := l.parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse launch file %s: %w", file, diags)
	}
	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("launch file %s is not native HCL syntax", file)
	}

	root, err := findLaunchBlock(body, file)
	if err != nil {
		return nil, err
	}

	b := &builder{loader: l, funcs: l.registry.Functions()}
	return b.Entities(ctx, root.Body)
}

// findLaunchBlock locates the single top-level launch block of a file.
func findLaunchBlock(body *hclsyntax.Body, file string) (*hclsyntax.Block, error) {
	var found *hclsyntax.Block
	for _, blk := range body.Blocks {
		if blk.Type != "launch" {
			return nil, fmt.Errorf("unexpected top-level %q block in %s, only 'launch' is allowed", blk.Type, file)
		}
		if found != nil {
			return nil, fmt.Errorf("duplicate 'launch' block in %s, only one is allowed", file)
		}
		found = blk
	}
	if found == nil {
		return nil, fmt.Errorf("launch file %s has no 'launch' block", file)
	}
	return found, nil
}

// sourceAt slices the original source text of a range, used so
// substitutions built from expressions can describe themselves faithfully.
func (l *Loader) sourceAt(rng hcl.Range) string {
	src, ok := l.parser.Sources()[rng.Filename]
	if !ok {
		return rng.String()
	}
	return string(rng.SliceBytes(src))
}
