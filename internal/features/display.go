package features

import (
	"strconv"
)

// Field is a labelled value for display.
type Field struct {
	Name  string
	Value string
}

// Column names shown alongside the derived features.
var columnNames = [VectorSize]string{
	"Duration (ms)",
	"Danceability",
	"Speechiness",
	"Acousticness",
	"Instrumentalness",
	"Liveness",
	"Valence",
	"Tempo",
	"energy_loudness_pca",
	"Release Date ordinal",
}

// ColumnNames returns the display names of the scaler columns in order.
func ColumnNames() []string {
	return columnNames[:]
}

// Fields returns the derived features as display rows in scaler order.
func (d DerivedRecord) Fields() []Field {
	scalars := d.Scalars()
	fields := make([]Field, 0, VectorSize)
	for i, v := range scalars {
		fields = append(fields, Field{
			Name:  columnNames[i],
			Value: formatScalar(i, v),
		})
	}
	fields = append(fields, Field{
		Name:  columnNames[ScalarCount],
		Value: strconv.FormatInt(d.ReleaseDateOrdinal, 10),
	})
	return fields
}

// formatScalar renders duration as an integer and everything else with
// enough precision to be readable.
func formatScalar(idx int, v float64) string {
	if idx == 0 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
