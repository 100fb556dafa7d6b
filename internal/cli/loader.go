package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/jitfront/internal/compiler"
)

// LoadMode controls how errors are handled during manifest loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// ManifestUnit is one translation unit declared in a manifest:
//
//	unit: add: {file: "m.py"}
//	unit: Point: {file: "m.py", kind: "class"}
//	unit: "Point.norm": {file: "m.py", self: "Point"}
//	unit: debug: {file: "m.py", unused: true}
type ManifestUnit struct {
	Name     string
	File     string // resolved against the manifest directory
	Kind     compiler.UnitKind
	Handle   compiler.Handle
	SelfName string
	Unused   bool
	Legacy   bool
	Pos      token.Pos
}

// Unit converts the entry to a batch unit. Functions are defined under
// the last dotted segment of their name, so "Point.norm" becomes "norm".
func (u ManifestUnit) Unit() compiler.Unit {
	name := u.Name
	if u.Kind == compiler.UnitFunction {
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
	}
	return compiler.Unit{Name: name, Kind: u.Kind, Handle: u.Handle, SelfName: u.SelfName}
}

// manifestEntry is the CUE shape of a unit entry.
type manifestEntry struct {
	File   string `json:"file"`
	Kind   string `json:"kind"`
	Handle string `json:"handle"`
	Self   string `json:"self"`
	Unused bool   `json:"unused"`
	Legacy bool   `json:"legacy"`
}

// LoadResult contains the units declared in a manifest directory.
type LoadResult struct {
	Units     []ManifestUnit // sorted by name
	CUEValue  cue.Value      // The raw CUE value for additional processing
	FileCount int            // Number of CUE files found
}

// LoadError represents an error that occurred during manifest loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadManifest loads the unit manifest from a directory of CUE files.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadManifest(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing manifest directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	unitsVal := value.LookupPath(cue.ParsePath("unit"))
	if unitsVal.Exists() {
		iter, iterErr := unitsVal.Fields()
		if iterErr != nil {
			return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating units: %v", iterErr)}}
		}
		for iter.Next() {
			unit, err := decodeUnit(iter.Selector().Unquoted(), iter.Value(), dir)
			if err != nil {
				errs = append(errs, err)
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			result.Units = append(result.Units, unit)
		}
	}

	if len(result.Units) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no units found in manifest"})
	}
	slices.SortFunc(result.Units, func(a, b ManifestUnit) int { return strings.Compare(a.Name, b.Name) })

	return result, errs
}

// decodeUnit decodes and checks one `unit: <name>: {...}` entry.
func decodeUnit(name string, v cue.Value, dir string) (ManifestUnit, error) {
	var entry manifestEntry
	if err := v.Decode(&entry); err != nil {
		return ManifestUnit{}, &LoadError{Code: ErrCodeInvalidEntry, Message: fmt.Sprintf("unit %s: %v", name, err), Pos: v.Pos()}
	}

	fieldPos := func(field string) token.Pos {
		if f := v.LookupPath(cue.ParsePath(field)); f.Exists() {
			return f.Pos()
		}
		return v.Pos()
	}

	if entry.File == "" {
		return ManifestUnit{}, &LoadError{Code: ErrCodeMissingFile, Message: fmt.Sprintf("unit %s: file is required", name), Pos: v.Pos()}
	}

	kind := compiler.UnitKind(entry.Kind)
	switch kind {
	case "":
		kind = compiler.UnitFunction
	case compiler.UnitFunction, compiler.UnitClass:
	default:
		return ManifestUnit{}, &LoadError{
			Code:    ErrCodeInvalidKind,
			Message: fmt.Sprintf("unit %s: kind must be %q or %q, got %q", name, compiler.UnitFunction, compiler.UnitClass, entry.Kind),
			Pos:     fieldPos("kind"),
		}
	}

	file := entry.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}
	if _, err := os.Stat(file); err != nil {
		return ManifestUnit{}, &LoadError{
			Code:    ErrCodeSourceMissing,
			Message: fmt.Sprintf("unit %s: source file not found: %s", name, entry.File),
			Pos:     fieldPos("file"),
		}
	}

	handle := entry.Handle
	if handle == "" {
		handle = name
	}
	self := entry.Self
	if self == "" && kind == compiler.UnitClass {
		self = name
	}

	return ManifestUnit{
		Name:     name,
		File:     file,
		Kind:     kind,
		Handle:   compiler.Handle(handle),
		SelfName: self,
		Unused:   entry.Unused,
		Legacy:   entry.Legacy,
		Pos:      v.Pos(),
	}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeCache       = "E008" // Cache open/read/write error
	ErrCodeSources     = "E009" // Python source failed to load

	// Manifest entry errors
	ErrCodeInvalidEntry  = "E101" // Entry does not decode
	ErrCodeMissingFile   = "E102" // No file given
	ErrCodeInvalidKind   = "E103" // Unknown unit kind
	ErrCodeSourceMissing = "E104" // File does not exist
)
