package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
)

func TestSelectStartingPoint(t *testing.T) {
	e := newActive(t, Options{Mode: ModeStart})
	labels := e.Variables().LabelFilters()
	assert.Equal(t, filter.VisibilityHidden, labels.Visibility())

	e.SelectStartingPoint("checkout")

	assert.Equal(t, []filter.Triple{{Key: "service_name", Operator: "=", Value: "checkout"}}, labels.Filters())
	assert.Equal(t, filter.VisibilityHideLabel, labels.Visibility())
	assert.Equal(t, ModeLogs, e.State().Mode)
	assert.Equal(t, "{service_name=`checkout`}", e.Query())
}

func TestSelectStartingPoint_EmptyValueIsNoop(t *testing.T) {
	e := newActive(t, Options{Mode: ModeStart})
	e.SelectStartingPoint("")

	assert.Equal(t, 0, e.Variables().LabelFilters().Len())
	assert.Equal(t, ModeStart, e.State().Mode)
}

func TestSelectStartingPoint_MissingCollectionIsNoop(t *testing.T) {
	e := newActive(t, Options{Mode: ModeStart})
	e.vars.Filters = filter.NewRegistry()

	e.SelectStartingPoint("checkout")
	assert.Equal(t, ModeStart, e.State().Mode)
}

func TestSelectStartingPoint_CustomLabel(t *testing.T) {
	e := newActive(t, Options{Mode: ModeStart, StartingLabel: "app"})
	e.SelectStartingPoint("api")
	assert.Equal(t, "{app=`api`}", e.Query())
}
