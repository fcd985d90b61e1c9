package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf_PrefixAndClassification(t *testing.T) {
	v := Errorf("boot disk %d GB exceeds cap", 50)

	assert.Equal(t, "ERROR: boot disk 50 GB exceeds cap", v.String())
	assert.True(t, v.IsError())
	assert.False(t, v.IsWarning())
}

func TestWarnf_PrefixAndClassification(t *testing.T) {
	v := Warnf("static IP %q is reserved but unattached", "stale-ip")

	assert.Equal(t, `WARN: static IP "stale-ip" is reserved but unattached`, v.String())
	assert.True(t, v.IsWarning())
	assert.False(t, v.IsError())
}

func TestBlocking_FiltersWarnings(t *testing.T) {
	violations := []Violation{
		Warnf("advisory one"),
		Errorf("hard failure"),
		Warnf("advisory two"),
		Errorf("another hard failure"),
	}

	blocking := Blocking(violations)

	assert.Len(t, blocking, 2)
	assert.Equal(t, Violation("ERROR: hard failure"), blocking[0])
	assert.Equal(t, Violation("ERROR: another hard failure"), blocking[1])
}

func TestBlocking_EmptyForWarningsOnly(t *testing.T) {
	assert.Empty(t, Blocking([]Violation{Warnf("advisory")}))
	assert.Empty(t, Blocking(nil))
}
