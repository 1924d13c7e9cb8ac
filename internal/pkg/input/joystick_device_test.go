package input

import (
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// fifoJoystickDevice backs a device with a nonblocking FIFO so the read
// loop can be driven without real hardware.
func fifoJoystickDevice(t *testing.T, axisMap []byte, buttonMap []uint16) (*JoystickDevice, int) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "js0")
	require.NoError(t, unix.Mkfifo(path, 0o600))

	rfd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	require.NoError(t, err)
	wfd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Close(wfd) })

	dev := newTestJoystickDevice("Fifo Pad", axisMap, buttonMap)
	dev.gw = gateway.New()
	dev.path = path
	dev.fd = rfd
	t.Cleanup(func() { _ = dev.Close() })
	return dev, wfd
}

func writeJSEvent(t *testing.T, fd int, typ, number uint8, value int16) {
	t.Helper()
	var buf [jsEventSize]byte
	*(*int16)(unsafe.Pointer(&buf[4])) = value
	buf[6] = typ
	buf[7] = number
	n, err := unix.Write(fd, buf[:])
	require.NoError(t, err)
	require.Equal(t, jsEventSize, n)
}

func TestJoystickPollReturnsOnEmptyQueue(t *testing.T) {
	dev, _ := fifoJoystickDevice(t,
		[]byte{byte(evdev.ABS_X)},
		[]uint16{uint16(evdev.BTN_TRIGGER)},
	)
	ctrl := buildJoystickController(dev)

	done := make(chan error, 1)
	go func() { done <- ctrl.Poll() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Poll blocked on an empty event queue")
	}
}

func TestJoystickPollRoutesRecords(t *testing.T) {
	dev, wfd := fifoJoystickDevice(t,
		[]byte{byte(evdev.ABS_X)},
		[]uint16{uint16(evdev.BTN_TRIGGER)},
	)
	ctrl := buildJoystickController(dev)

	writeJSEvent(t, wfd, JS_EVENT_AXIS, 0, 32767)
	writeJSEvent(t, wfd, JS_EVENT_BUTTON, 0, 1)
	// synthetic init records carry state and route like live ones
	writeJSEvent(t, wfd, JS_EVENT_AXIS|JS_EVENT_INIT, 0, -32767)

	require.NoError(t, ctrl.Poll())

	comps := ctrl.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, ButtonTrigger, comps[0].ID())
	assert.Equal(t, float32(1), comps[0].Value())
	assert.Equal(t, AxisX, comps[1].ID())
	assert.InDelta(t, -1.0, comps[1].Value(), 1e-6)

	// queue drained, a second poll is a prompt no-op
	require.NoError(t, ctrl.Poll())
}

func TestJoystickPollIgnoresUnknownIndices(t *testing.T) {
	dev, wfd := fifoJoystickDevice(t,
		[]byte{byte(evdev.ABS_X)},
		nil,
	)
	ctrl := buildJoystickController(dev)

	writeJSEvent(t, wfd, JS_EVENT_AXIS, 9, 1234)
	writeJSEvent(t, wfd, JS_EVENT_BUTTON, 3, 1)

	require.NoError(t, ctrl.Poll())
	assert.Equal(t, float32(0), ctrl.Components()[0].Value())
}

func TestJoystickDeviceCloseIsIdempotent(t *testing.T) {
	dev, _ := fifoJoystickDevice(t, nil, nil)
	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())
	assert.Equal(t, -1, dev.fd)
}
