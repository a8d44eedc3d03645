package bayesnet

// dataset.go loads a chutils.Input reader (CSV file or ClickHouse query)
// into the dense integer matrices Fit expects, encoding each column's
// distinct observed values as a sorted 0..k-1 code.

import (
	"fmt"
	"io"
	"sort"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/invertedv/chutils"
)

// LoadDataset reads every row of rdr and encodes it into the (x, y,
// featureNames, states) quadruple BaseClassifier.Fit expects. className
// names the field to treat as the label; every other field in rdr's
// TableSpec becomes a feature, encoded to integer codes by the sorted
// order of its distinct observed values.
func LoadDataset(rdr chutils.Input, className string) (x *xtensor.IntMatrix, y []int, featureNames []string, states map[string][]int, err error) {
	if e := rdr.Reset(); e != nil {
		return nil, nil, nil, nil, Wrapperf(ErrRuntimeError, "resetting reader: %v", e)
	}
	nRow, e := rdr.CountLines()
	if e != nil {
		return nil, nil, nil, nil, Wrapperf(ErrRuntimeError, "counting rows: %v", e)
	}

	fds := rdr.TableSpec().FieldDefs
	names := make([]string, 0, len(fds))
	classIdx := -1
	for i, fd := range fds {
		if fd.Name == className {
			classIdx = i
			continue
		}
		names = append(names, fd.Name)
	}
	if classIdx == -1 {
		return nil, nil, nil, nil, Wrapperf(ErrInvalidArgument, "class field %q not found", className)
	}

	raw := make([][]any, len(fds))
	for i := range raw {
		raw[i] = make([]any, 0, nRow)
	}

	for {
		r, _, readErr := rdr.Read(1, true)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, nil, nil, Wrapperf(ErrRuntimeError, "reading row: %v", readErr)
		}
		for c := 0; c < len(fds); c++ {
			raw[c] = append(raw[c], r[0][c])
		}
	}
	if Verbose {
		fmt.Println("rows read: ", len(raw[classIdx]))
	}

	y, classStates := encodeColumn(raw[classIdx])
	states = map[string][]int{className: classStates}

	n := len(names)
	x = xtensor.NewIntMatrix(n, len(y))
	featureNames = names
	col := 0
	for i, fd := range fds {
		if i == classIdx {
			continue
		}
		codes, fStates := encodeColumn(raw[i])
		for s, c := range codes {
			x.Set(col, s, c)
		}
		states[fd.Name] = fStates
		col++
	}

	return x, y, featureNames, states, nil
}

// encodeColumn maps a column's distinct values (compared by their
// %v representation, so it works across chutils' date/string/numeric
// field kinds) to sorted integer codes.
func encodeColumn(values []any) ([]int, []int) {
	keyOf := make([]string, len(values))
	seen := map[string]bool{}
	var distinctKeys []string
	for i, v := range values {
		k := fmt.Sprintf("%v", v)
		keyOf[i] = k
		if !seen[k] {
			seen[k] = true
			distinctKeys = append(distinctKeys, k)
		}
	}
	sort.Strings(distinctKeys)
	code := make(map[string]int, len(distinctKeys))
	for i, k := range distinctKeys {
		code[k] = i
	}
	out := make([]int, len(values))
	for i, k := range keyOf {
		out[i] = code[k]
	}
	states := make([]int, len(distinctKeys))
	for i := range states {
		states[i] = i
	}
	return out, states
}
