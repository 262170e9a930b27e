package input

// VideoSampler is the narrow PPU collaborator the zapper needs: whether
// the current beam position under the crosshair is bright enough to
// trigger light detection.
type VideoSampler interface {
	SampleBrightness(x, y int) bool
}

// Zapper models the NES light gun. Bits 3-4 of a read present light
// detection and trigger state combined.
type Zapper struct {
	video VideoSampler
	x, y  int

	triggerOn   bool // on-screen trigger pull
	triggerOff  bool // offscreen trigger pull, a distinct action
}

func NewZapper(video VideoSampler) *Zapper { return &Zapper{video: video} }

func (z *Zapper) SetPosition(x, y int) { z.x, z.y = x, y }

// Trigger sets the on-screen or offscreen trigger state, chosen by the
// offscreen argument; Read reports either one as a pulled trigger.
func (z *Zapper) Trigger(pressed bool, offscreen bool) {
	if offscreen {
		z.triggerOff = pressed
	} else {
		z.triggerOn = pressed
	}
}

func (z *Zapper) Connect()    {}
func (z *Zapper) Disconnect() {}
func (z *Zapper) Reset() {
	z.triggerOn, z.triggerOff = false, false
}
func (z *Zapper) EndFrame() {}
func (z *Zapper) Write(uint8) {}

func (z *Zapper) Read() uint8 {
	var v uint8
	triggerPulled := z.triggerOn || z.triggerOff
	lit := z.video != nil && z.video.SampleBrightness(z.x, z.y)
	if !lit {
		v |= 1 << 3
	}
	if triggerPulled {
		v |= 1 << 4
	}
	return v
}
