package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountMarshalJSON(t *testing.T) {
	cases := map[Amount]string{
		0:     "0.0",
		150:   "150.0",
		152.5: "152.5",
		-3:    "-3.0",
		0.1:   "0.1",
		1e21:  "1000000000000000000000.0",
	}
	for in, want := range cases {
		got, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	_, err := json.Marshal(Amount(math.Inf(1)))
	assert.Error(t, err)
	_, err = json.Marshal(Amount(math.NaN()))
	assert.Error(t, err)
}

func TestSalaryReportEncodesTotalsAsFloats(t *testing.T) {
	report := SalaryReport{
		Summary: SalarySummary{WorkerID: "w1", Period: "2024-01-01 to 2024-01-31", TotalMeters: 30, TotalSalary: 150},
		Details: []SalaryDetail{{Date: "2024-01-01", Shift: ShiftDay, Meters: 10, Amount: 50, Loom: "A1", LoomID: "l1"}},
	}

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":{"worker_id":"w1","period":"2024-01-01 to 2024-01-31","total_meters":30,"total_salary":150},"details":[{"date":"2024-01-01","shift":"Day","meters":10,"amount":50,"loom":"A1","loom_id":"l1"}]}`, string(raw))
	assert.Contains(t, string(raw), `"total_meters":30.0,"total_salary":150.0`)
	assert.Contains(t, string(raw), `"meters":10.0,"amount":50.0`)

	var decoded SalaryReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, report, decoded)
}

func TestProductionMetersEncodesMetersAsFloat(t *testing.T) {
	raw, err := json.Marshal(ProductionMeters{WorkerID: "w1", LoomID: "l1", Date: "2024-01-05", Meters: 20, Records: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"worker_id":"w1","loom_id":"l1","date":"2024-01-05","meters":20.0,"records":1}`, string(raw))
}
