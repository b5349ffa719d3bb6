package sim

import (
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// frameState is what the recorder needs to draw one frame.
type frameState struct {
	x, y   float64
	angle  float64
	action int
}

// Render geometry.
const (
	frameWidth  = 240
	frameHeight = 160
	groundRow   = frameHeight - 12
	frameDelay  = 4 // hundredths of a second per frame (~25 fps)
)

// Recorder draws a minimal replay of the episode and encodes it as an
// animated GIF. It stands in for the video artifact of a mission run.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		palette: color.Palette{
			color.Black,
			color.White,
			color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}, // ground
			color.RGBA{R: 0x00, G: 0xd0, B: 0x60, A: 0xff}, // pad
			color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, // flame
		},
	}
}

// Frames returns the number of captured frames.
func (r *Recorder) Frames() int { return len(r.frames) }

// Capture draws the current lander state into a new frame.
func (r *Recorder) Capture(s frameState) {
	img := image.NewPaletted(image.Rect(0, 0, frameWidth, frameHeight), r.palette)

	// Ground and landing pad.
	for px := 0; px < frameWidth; px++ {
		img.SetColorIndex(px, groundRow, 2)
	}
	padL := toPixelX(-padHalfWidth)
	padR := toPixelX(padHalfWidth)
	for px := padL; px <= padR; px++ {
		img.SetColorIndex(px, groundRow, 3)
		img.SetColorIndex(px, groundRow+1, 3)
	}

	// Lander body: a short oriented bar with a cross arm.
	cx := toPixelX(s.x)
	cy := toPixelY(s.y)
	sin, cos := math.Sin(s.angle), math.Cos(s.angle)
	for t := -4; t <= 4; t++ {
		setPixel(img, cx+int(float64(t)*cos), cy+int(float64(t)*sin), 1)
		if t >= -2 && t <= 2 {
			setPixel(img, cx-int(float64(t)*sin), cy+int(float64(t)*cos), 1)
		}
	}

	// Engine flame markers.
	switch s.action {
	case ActionMainEngine:
		setPixel(img, cx+int(3*sin), cy+3, 4)
		setPixel(img, cx+int(3*sin), cy+4, 4)
	case ActionLeftEngine:
		setPixel(img, cx-5, cy, 4)
	case ActionRightEngine:
		setPixel(img, cx+5, cy, 4)
	}

	r.frames = append(r.frames, img)
}

// SaveGIF writes the captured frames as an animated GIF.
func (r *Recorder) SaveGIF(path string) error {
	if len(r.frames) == 0 {
		return goerr.New("no frames recorded")
	}

	anim := &gif.GIF{
		Image: r.frames,
		Delay: make([]int, len(r.frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = frameDelay
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create replay file", goerr.V("path", path))
	}
	defer f.Close()

	if err := gif.EncodeAll(f, anim); err != nil {
		return goerr.Wrap(err, "failed to encode replay", goerr.V("path", path))
	}
	return nil
}

func toPixelX(x float64) int {
	return int((x + fieldHalfWidth) / (2 * fieldHalfWidth) * frameWidth)
}

func toPixelY(y float64) int {
	return groundRow - int(y/1.6*float64(groundRow-8))
}

func setPixel(img *image.Paletted, x, y int, idx uint8) {
	if x < 0 || y < 0 || x >= frameWidth || y >= frameHeight {
		return
	}
	img.SetColorIndex(x, y, idx)
}
