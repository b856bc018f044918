package domain

import "fmt"

// Dataset names one independently produced SWE estimate.
type Dataset string

const (
	Snow17    Dataset = "Snow-17"
	ISnobal   Dataset = "iSnobal"
	SNODAS    Dataset = "SNODAS"
	UArizona  Dataset = "UArizona"
	CUBoulder Dataset = "CU Boulder"
	ASO       Dataset = "ASO"
)

// CanonicalDatasets lists every known dataset in display order.
var CanonicalDatasets = []Dataset{Snow17, ISnobal, SNODAS, UArizona, CUBoulder, ASO}

// DefaultComparison is the ordered set of datasets compared pairwise. The first
// entry is the reference; the sparse observation products are left out.
var DefaultComparison = []Dataset{Snow17, ISnobal, SNODAS, UArizona}

// ParseDataset maps a column name to a canonical dataset.
func ParseDataset(name string) (Dataset, error) {
	for _, d := range CanonicalDatasets {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q", name)
}
