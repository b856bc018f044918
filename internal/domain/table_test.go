package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func threeDayTable() ZoneTable {
	return ZoneTable{
		Zone:    "DRGC2HUF",
		Columns: []Dataset{Snow17, SNODAS},
		Rows: []DailySWE{
			{Date: day("2020-09-30"), Snow17: 1, SNODAS: 2},
			{Date: day("2020-10-01"), Snow17: 3, SNODAS: 4},
			{Date: day("2020-10-02"), Snow17: 5, SNODAS: 6},
		},
	}
}

func TestZoneTable_Series(t *testing.T) {
	tbl := threeDayTable()

	s, err := tbl.Series(SNODAS)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, s)

	_, err = tbl.Series(UArizona)
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, UArizona, mce.Column)
	assert.Equal(t, `zone DRGC2HUF: missing dataset column "UArizona"`, err.Error())
}

func TestZoneTable_Require(t *testing.T) {
	tbl := threeDayTable()
	assert.NoError(t, tbl.Require([]Dataset{Snow17, SNODAS}))

	err := tbl.Require([]Dataset{Snow17, ISnobal, UArizona})
	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, ISnobal, mce.Column, "first missing column is reported")
}

func TestZoneTable_Validate(t *testing.T) {
	assert.NoError(t, threeDayTable().Validate())

	tests := []struct {
		name   string
		mutate func(*ZoneTable)
	}{
		{"unknown column", func(t *ZoneTable) { t.Columns = append(t.Columns, "MODIS") }},
		{"duplicate column", func(t *ZoneTable) { t.Columns = append(t.Columns, Snow17) }},
		{"duplicate date", func(t *ZoneTable) { t.Rows[2].Date = t.Rows[1].Date }},
		{"unordered dates", func(t *ZoneTable) { t.Rows[0], t.Rows[2] = t.Rows[2], t.Rows[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := threeDayTable()
			tt.mutate(&tbl)
			assert.ErrorIs(t, tbl.Validate(), ErrInvalidTable)
		})
	}
}

func TestZoneTable_Between(t *testing.T) {
	tbl := threeDayTable()

	wy := tbl.Between(WaterYearStart(2021), WaterYearEnd(2021))
	require.Len(t, wy.Rows, 2)
	assert.Equal(t, day("2020-10-01"), wy.Rows[0].Date)
	assert.Equal(t, tbl.Columns, wy.Columns)
	assert.Equal(t, "DRGC2HUF", wy.Zone)

	assert.Empty(t, tbl.Between(WaterYearStart(2022), WaterYearEnd(2022)).Rows)
	assert.Len(t, tbl.Between(day("2020-09-30"), day("2020-10-01")).Rows, 1, "end is exclusive")
}

func TestDailySWE_JSON(t *testing.T) {
	var tbl ZoneTable
	err := json.Unmarshal([]byte(`{
		"zone": "DRGC2HUF",
		"columns": ["Snow-17", "CU Boulder"],
		"rows": [{"date": "2021-03-01", "Snow-17": 120.5, "CU Boulder": 98}]
	}`), &tbl)
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []Dataset{Snow17, CUBoulder}, tbl.Columns)
	assert.Equal(t, day("2021-03-01"), tbl.Rows[0].Date)
	assert.Equal(t, 120.5, tbl.Rows[0].Snow17)
	assert.Equal(t, 98.0, tbl.Rows[0].CUBoulder)
	assert.Zero(t, tbl.Rows[0].SNODAS)
	assert.True(t, tbl.Rows[0].Has(Snow17))
	assert.False(t, tbl.Rows[0].Has(SNODAS))
	assert.NoError(t, tbl.Validate())

	data, err := json.Marshal(tbl.Rows[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2021-03-01"`)
	assert.Contains(t, string(data), `"CU Boulder":98`)
	assert.NotContains(t, string(data), "SNODAS", "absent values stay absent")

	var bad DailySWE
	assert.Error(t, json.Unmarshal([]byte(`{"date":"03/01/2021"}`), &bad))
}

func TestDailySWE_ValueSetValue(t *testing.T) {
	var r DailySWE
	for i, d := range CanonicalDatasets {
		r.SetValue(d, float64(i+1))
	}
	for i, d := range CanonicalDatasets {
		v, ok := r.Value(d)
		require.True(t, ok)
		assert.Equal(t, float64(i+1), v)
	}
	_, ok := r.Value("MODIS")
	assert.False(t, ok)
}

func TestZoneTable_Validate_RowMissingValue(t *testing.T) {
	var tbl ZoneTable
	err := json.Unmarshal([]byte(`{
		"zone": "DRGC2HUF",
		"columns": ["Snow-17", "UArizona"],
		"rows": [
			{"date": "2021-03-01", "Snow-17": 120, "UArizona": 120},
			{"date": "2021-03-02", "Snow-17": 121},
			{"date": "2021-03-03", "Snow-17": 122, "UArizona": null}
		]
	}`), &tbl)
	require.NoError(t, err)

	assert.False(t, tbl.Rows[1].Has(UArizona))
	assert.False(t, tbl.Rows[2].Has(UArizona), "null counts as absent")

	err = tbl.Validate()
	require.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), "2021-03-02")
	assert.Contains(t, err.Error(), `"UArizona"`)
}

func TestDailySWE_SetValueFillsDecodedGap(t *testing.T) {
	var r DailySWE
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2021-03-01","Snow-17":1}`), &r))
	require.False(t, r.Has(ASO))

	r.SetValue(ASO, 0)
	assert.True(t, r.Has(ASO))
	assert.False(t, r.Has("MODIS"))
}
