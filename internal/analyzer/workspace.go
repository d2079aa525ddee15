package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/ravelscan/ravel/domain"
)

// Workspace resolves C1 (spec.md §4.1): enumerate .rs files grouped by
// sub-package, plus the set of declared project (crate) roots, discovered
// from Cargo.toml workspace members when a manifest is present.
type Workspace struct {
	ignoreGlobs  []string
	includeGlobs []string
}

// NewWorkspace creates a resolver with the given ignore/include globs
// layered on top of the fixed defaults (domain.DefaultIgnoreGlobs).
func NewWorkspace(ignoreGlobs, includeGlobs []string) *Workspace {
	w := &Workspace{
		ignoreGlobs:  append([]string(nil), domain.DefaultIgnoreGlobs...),
		includeGlobs: includeGlobs,
	}
	w.ignoreGlobs = append(w.ignoreGlobs, ignoreGlobs...)
	if len(w.includeGlobs) == 0 {
		w.includeGlobs = append([]string(nil), domain.DefaultIncludeGlobs...)
	}
	return w
}

// cargoManifest is the subset of Cargo.toml this resolver reads.
type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Resolve implements domain.WorkspaceResolver.
func (w *Workspace) Resolve(ctx context.Context, root string, cfg *domain.Config) (*domain.WorkspaceResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewIoError("resolving workspace root", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, domain.NewIoError("workspace root unreachable: "+absRoot, err)
	}

	roots, memberDirs, err := w.discoverRoots(absRoot)
	if err != nil {
		return nil, err
	}

	ignoreGlobs := append([]string(nil), w.ignoreGlobs...)
	if cfg != nil {
		ignoreGlobs = append(ignoreGlobs, cfg.Volatility.Ignore...)
	}

	files, fileModules, err := w.walk(ctx, absRoot, memberDirs, ignoreGlobs)
	if err != nil {
		return nil, err
	}

	return &domain.WorkspaceResult{
		Files:       files,
		FileModules: fileModules,
		Roots:       roots,
	}, nil
}

// discoverRoots parses Cargo.toml if present, returning the declared crate
// roots and the absolute directory each crate's sources live under. Absent
// a manifest the root directory's own name is the sole crate (spec.md
// §4.1 "otherwise treat the root as a single package named after its
// directory").
func (w *Workspace) discoverRoots(absRoot string) ([]string, map[string]string, error) {
	manifestPath := filepath.Join(absRoot, "Cargo.toml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{filepath.Base(absRoot)}, map[string]string{filepath.Base(absRoot): absRoot}, nil
		}
		return nil, nil, domain.NewIoError("reading "+manifestPath, err)
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, nil, domain.NewWorkspaceError(manifestPath, err)
	}

	memberDirs := make(map[string]string)
	var roots []string

	if manifest.Workspace != nil && len(manifest.Workspace.Members) > 0 {
		for _, member := range manifest.Workspace.Members {
			matches, err := doublestar.FilepathGlob(filepath.Join(absRoot, member))
			if err != nil {
				return nil, nil, domain.NewWorkspaceError(manifestPath, err)
			}
			if len(matches) == 0 {
				matches = []string{filepath.Join(absRoot, member)}
			}
			for _, dir := range matches {
				name, ok := w.crateNameOf(dir)
				if !ok {
					continue
				}
				roots = append(roots, name)
				memberDirs[name] = dir
			}
		}
		return roots, memberDirs, nil
	}

	if manifest.Package != nil && manifest.Package.Name != "" {
		return []string{manifest.Package.Name}, map[string]string{manifest.Package.Name: absRoot}, nil
	}

	return []string{filepath.Base(absRoot)}, map[string]string{filepath.Base(absRoot): absRoot}, nil
}

func (w *Workspace) crateNameOf(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if err != nil {
		return filepath.Base(dir), true
	}
	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil || manifest.Package == nil || manifest.Package.Name == "" {
		return filepath.Base(dir), true
	}
	return manifest.Package.Name, true
}

// walk enumerates source files honoring ignore globs, following symlinks
// once with canonicalized-path memoization to break filesystem cycles
// (spec.md §4.1).
func (w *Workspace) walk(ctx context.Context, absRoot string, memberDirs map[string]string, ignoreGlobs []string) ([]string, map[string]domain.ModulePath, error) {
	var files []string
	fileModules := make(map[string]domain.ModulePath)
	visitedDirs := make(map[string]bool)

	// Crates are walked in sorted order so the file list (and everything
	// folded from it, e.g. representative edge locations) is identical
	// across runs of a multi-crate workspace.
	crates := make([]string, 0, len(memberDirs))
	for crate := range memberDirs {
		crates = append(crates, crate)
	}
	sort.Strings(crates)

	for _, crate := range crates {
		dir := memberDirs[crate]
		srcDir := filepath.Join(dir, "src")
		if _, err := os.Stat(srcDir); err != nil {
			srcDir = dir
		}

		if err := w.walkDir(ctx, crate, srcDir, srcDir, ignoreGlobs, visitedDirs, &files, fileModules); err != nil {
			return nil, nil, domain.NewIoError("walking "+srcDir, err)
		}
	}

	return files, fileModules, nil
}

// walkDir recurses into dir, following symlinked directories once;
// visitedDirs memoizes canonicalized paths so filesystem cycles (a symlink
// pointing back at an ancestor) terminate. os.ReadDir returns entries
// sorted by name, keeping the file list deterministic across runs.
func (w *Workspace) walkDir(ctx context.Context, crate, srcDir, dir string, ignoreGlobs []string, visitedDirs map[string]bool, files *[]string, fileModules map[string]domain.ModulePath) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	canon, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil // dangling symlink or unreadable entry, local to this subtree (spec.md §7)
	}
	if visitedDirs[canon] {
		return nil
	}
	visitedDirs[canon] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// Stat (not Lstat) so a symlinked directory is seen as a
		// directory and descended into.
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if err := w.walkDir(ctx, crate, srcDir, path, ignoreGlobs, visitedDirs, files, fileModules); err != nil {
				return err
			}
			continue
		}

		rel, rerr := filepath.Rel(srcDir, path)
		if rerr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(w.includeGlobs, path, rel) || matchesAny(ignoreGlobs, path, rel) {
			continue
		}

		*files = append(*files, path)
		fileModules[path] = filePathToModule(crate, srcDir, path)
	}
	return nil
}

// matchesAny reports whether any glob matches any of the candidate
// spellings of one file's path (absolute, walk-relative, base name), so
// patterns like "target/**" work no matter how the walk anchored the path.
func matchesAny(globs []string, candidates ...string) bool {
	for _, g := range globs {
		for _, c := range candidates {
			if matched, _ := doublestar.Match(g, c); matched {
				return true
			}
		}
		if len(candidates) > 0 {
			if matched, _ := doublestar.Match(g, filepath.Base(candidates[0])); matched {
				return true
			}
		}
	}
	return false
}

// filePathToModule derives a module path from a source file's location
// within a crate, honoring Rust's two equivalent submodule layouts
// ("foo/bar.rs" and "foo/bar/mod.rs" both mean module crate::foo::bar).
func filePathToModule(crate, srcDir, path string) domain.ModulePath {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil {
		return domain.ModulePath(crate)
	}
	rel = strings.TrimSuffix(rel, ".rs")
	rel = strings.TrimSuffix(rel, string(filepath.Separator)+"mod")

	switch rel {
	case "lib", "main", ".":
		return domain.ModulePath(crate)
	}

	segs := strings.Split(filepath.ToSlash(rel), "/")
	return domain.ModulePath(crate).Join(segs...)
}
