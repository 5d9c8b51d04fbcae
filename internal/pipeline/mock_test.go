package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/call-intel/internal/extract"
	"github.com/sells-group/call-intel/internal/model"
)

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) SalesData(ctx context.Context, text string) extract.Result[model.SalesData] {
	args := m.Called(ctx, text)
	return args.Get(0).(extract.Result[model.SalesData])
}

func (m *mockExtractor) CallAnalysis(ctx context.Context, text string) extract.Result[model.CallAnalysis] {
	args := m.Called(ctx, text)
	return args.Get(0).(extract.Result[model.CallAnalysis])
}

func salesOK(empresa string) extract.Result[model.SalesData] {
	s := model.EmptySalesData()
	s.Empresa = empresa
	s.Dores = []string{"custo alto de frete"}
	return extract.Result[model.SalesData]{Value: s, Quality: model.QualityOK}
}

func callOK(participants ...string) extract.Result[model.CallAnalysis] {
	c := model.EmptyCallAnalysis()
	c.Participants = participants
	return extract.Result[model.CallAnalysis]{Value: c, Quality: model.QualityOK}
}
