package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/luxfi/ipshare/pkg/fixedpoint"
)

// loadDataset reads a CSV file of n rows by d+1 columns: the first d columns
// are the features of X, the last column is the target y. It returns the
// encoded feature data in the feature-major layout RunDataParty and
// RunInitializer both expect — data[r*n:(r+1)*n] holds feature column r's n
// sample values — along with the encoded target vector.
func loadDataset(path string, precision uint) (data, target []uint64, n, d int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("ipshare: opening dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("ipshare: reading dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, 0, 0, fmt.Errorf("ipshare: dataset %s is empty", path)
	}

	n = len(records)
	d = len(records[0]) - 1
	if d <= 0 {
		return nil, nil, 0, 0, fmt.Errorf("ipshare: dataset %s needs at least one feature column and a target column", path)
	}

	rawX := make([]float64, n*d) // sample-major: rawX[s*d+c]
	rawY := make([]float64, n)
	for s, rec := range records {
		if len(rec) != d+1 {
			return nil, nil, 0, 0, fmt.Errorf("ipshare: dataset %s row %d has %d columns, want %d", path, s, len(rec), d+1)
		}
		for c := 0; c < d; c++ {
			v, err := strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, nil, 0, 0, fmt.Errorf("ipshare: dataset %s row %d col %d: %w", path, s, c, err)
			}
			rawX[s*d+c] = v
		}
		y, err := strconv.ParseFloat(rec[d], 64)
		if err != nil {
			return nil, nil, 0, 0, fmt.Errorf("ipshare: dataset %s row %d target: %w", path, s, err)
		}
		rawY[s] = y
	}

	featureMajor := make([]float64, d*n) // featureMajor[col*n+s]
	for s := 0; s < n; s++ {
		for c := 0; c < d; c++ {
			featureMajor[c*n+s] = rawX[s*d+c]
		}
	}

	data = fixedpoint.EncodeMatrix(featureMajor, precision, d, n)
	target = fixedpoint.EncodeVector(rawY, precision, d, n)
	return data, target, n, d, nil
}
