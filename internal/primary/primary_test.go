package primary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenctl/lumen/internal/errors"
)

const twoMonitorOutput = `Screen 0: minimum 320 x 200, current 4480 x 1440, maximum 16384 x 16384
DP-1 connected 2560x1440+0+0 (normal left inverted right x axis y axis) 597mm x 336mm
   2560x1440     59.95*+
HDMI-1 connected primary 1920x1080+2560+0 (normal left inverted right x axis y axis) 527mm x 296mm
   1920x1080     60.00*+
DP-2 disconnected (normal left inverted right x axis y axis)
`

func TestPrimaryIndexSkipsDisconnected(t *testing.T) {
	d := NewDetectorWithOutput(twoMonitorOutput)

	idx, err := d.PrimaryIndex()
	require.NoError(t, err)
	// HDMI-1 is the second connected output.
	assert.Equal(t, 1, idx)
}

func TestPrimaryIndexFirstOutput(t *testing.T) {
	out := `eDP-1 connected primary 1920x1080+0+0 (normal left inverted right x axis y axis) 309mm x 174mm
   1920x1080     60.02*+
`
	d := NewDetectorWithOutput(out)

	idx, err := d.PrimaryIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestPrimaryIndexNoPrimary(t *testing.T) {
	out := `DP-1 connected 2560x1440+0+0 (normal left inverted right x axis y axis) 597mm x 336mm
HDMI-1 connected 1920x1080+2560+0 (normal left inverted right x axis y axis) 527mm x 296mm
`
	d := NewDetectorWithOutput(out)

	_, err := d.PrimaryIndex()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}

func TestPrimaryIndexEmptyOutput(t *testing.T) {
	d := NewDetectorWithOutput("")

	_, err := d.PrimaryIndex()
	assert.Error(t, err)
}

func TestPrimaryIndexCommandFailure(t *testing.T) {
	d := &Detector{run: func() ([]byte, error) {
		return nil, assert.AnError
	}}

	_, err := d.PrimaryIndex()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}
