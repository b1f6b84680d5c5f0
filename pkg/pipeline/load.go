package pipeline

import (
	"github.com/matzehuels/pointmap/pkg/dataset"
)

// Load returns the dataset selected by opts: the preloaded one, the file at
// DatasetPath, or the builtin dataset.
func Load(opts Options) (*dataset.Dataset, error) {
	if opts.Dataset != nil {
		return opts.Dataset, nil
	}
	if opts.DatasetPath == "" || opts.DatasetPath == BuiltinDataset {
		return dataset.Builtin(), nil
	}
	return dataset.Load(opts.DatasetPath)
}
