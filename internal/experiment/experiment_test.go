package experiment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSummaryKeepsFieldOrder(t *testing.T) {
	as := require.New(t)

	s := Summary{{"zeta", 1}, {"alpha", 0.5}, {"num keys", uint64(3)}}
	b, err := json.Marshal(s)
	as.NoError(err)
	as.Equal(`{"zeta":1,"alpha":0.5,"num keys":3}`, string(b))

	v, ok := s.Get("alpha")
	as.True(ok)
	as.Equal(0.5, v)
	_, ok = s.Get("missing")
	as.False(ok)
}

func TestResultPutsAlgorithmFirst(t *testing.T) {
	as := require.New(t)

	b, err := json.Marshal(Result{Algorithm: FlipHash64, Summary: Summary{{FieldNumKeys, uint64(7)}}})
	as.NoError(err)
	as.Equal(`{"algo":"flip-hash64","num keys":7}`, string(b))

	var decoded map[string]any
	as.NoError(json.Unmarshal(b, &decoded))
	as.Equal("flip-hash64", decoded[FieldAlgo])
}
