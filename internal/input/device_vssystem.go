package input

// VSSwitches models the VS-Unisystem arcade cabinet's coin slots,
// service-credit switch and eight DIP switches. Coin presses are held for a fixed number of frames to
// defeat anti-tamper logic some VS cabinets apply against
// instantaneous coin pulses.
type VSSwitches struct {
	coin1, coin2, service uint8 // frame countdown; >0 means held
	dip                   uint8

	CoinHoldFrames int
}

// DefaultCoinHoldFrames is the standard three-frame coin-switch hold.
const DefaultCoinHoldFrames = 3

func NewVSSwitches(dip uint8) *VSSwitches {
	return &VSSwitches{dip: dip, CoinHoldFrames: DefaultCoinHoldFrames}
}

// PressCoin1/PressCoin2/PressService start (or restart) the fixed-length
// hold for that switch.
func (v *VSSwitches) PressCoin1()  { v.coin1 = uint8(v.CoinHoldFrames) }
func (v *VSSwitches) PressCoin2()  { v.coin2 = uint8(v.CoinHoldFrames) }
func (v *VSSwitches) PressService() { v.service = uint8(v.CoinHoldFrames) }

func (v *VSSwitches) SetDIP(value uint8) { v.dip = value }

func (v *VSSwitches) Connect()    {}
func (v *VSSwitches) Disconnect() {}
func (v *VSSwitches) Reset() {
	v.coin1, v.coin2, v.service = 0, 0, 0
}

// EndFrame decrements the coin/service hold counters once per frame.
func (v *VSSwitches) EndFrame() {
	if v.coin1 > 0 {
		v.coin1--
	}
	if v.coin2 > 0 {
		v.coin2--
	}
	if v.service > 0 {
		v.service--
	}
}

func (v *VSSwitches) Write(uint8) {}

func (v *VSSwitches) Read() uint8 {
	var r uint8
	if v.coin1 > 0 {
		r |= 1 << 0
	}
	if v.coin2 > 0 {
		r |= 1 << 1
	}
	if v.service > 0 {
		r |= 1 << 2
	}
	return r
}

// DIP returns the eight cabinet DIP switch bits, exposed separately
// from Read since real VS hardware maps the coin/service port and the
// DIP bank at different CPU addresses.
func (v *VSSwitches) DIP() uint8 { return v.dip }
