package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam captures JPEG frames from a local video device via OpenCV.
// The device is an exclusively-owned resource: opened once, released on
// Close.
type Webcam struct {
	mu      sync.Mutex
	device  *gocv.VideoCapture
	mat     gocv.Mat
	quality int
	flip    bool
	closed  bool
}

// OpenWebcam opens the capture device described by cfg and applies the
// requested resolution and framerate. Consumer webcams may silently clamp
// these; the actual frame size is whatever the driver delivers.
func OpenWebcam(cfg Config) (*Webcam, error) {
	device, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera device %d: %w", cfg.DeviceID, err)
	}
	if !device.IsOpened() {
		device.Close()
		return nil, fmt.Errorf("camera device %d unavailable", cfg.DeviceID)
	}

	device.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	device.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	device.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Webcam{
		device:  device,
		mat:     gocv.NewMat(),
		quality: cfg.Quality,
		flip:    cfg.FlipHorizontal,
	}, nil
}

// CaptureJPEG reads one frame from the device and returns it JPEG-encoded.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("camera closed")
	}

	if ok := w.device.Read(&w.mat); !ok {
		return nil, fmt.Errorf("camera read failed")
	}
	if w.mat.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	if w.flip {
		gocv.Flip(w.mat, &w.mat, 1) // mirror around the vertical axis
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.mat,
		[]int{gocv.IMWriteJpegQuality, w.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// The native buffer is only valid until Close, copy it out.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Apply updates the capture properties on the live device.
// Wired as the Manager's OnConfigChange callback.
func (w *Webcam) Apply(cfg Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("camera closed")
	}

	w.device.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	w.device.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	w.device.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	w.quality = cfg.Quality
	w.flip = cfg.FlipHorizontal
	return nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.device.Close()
}
