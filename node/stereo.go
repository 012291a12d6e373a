package node

import "math"

// Panner places a mono node into the stereo image with equal-power law.
type Panner struct {
	Node
	left, right float64
}

// Pan returns a stereo node of mono source at position in [-1, 1], where
// -1 is hard left and 1 is hard right. Center position yields 1/√2 in both
// channels. The source receives the left input.
func Pan(source Node, position float64) (*Panner, error) {
	if !(position >= -1 && position <= 1) {
		return nil, configErr("pan", "position", position)
	}
	angle := (position + 1) * math.Pi / 4
	return &Panner{
		Node:  source,
		left:  math.Cos(angle),
		right: math.Sin(angle),
	}, nil
}

// TickStereo advances the source and pans its output.
func (p *Panner) TickStereo(l, _ float64) (float64, float64) {
	v := p.Node.Tick(l)
	return v * p.left, v * p.right
}

// split processes channels with independent mono nodes.
type split struct {
	left, right Node
}

// Split returns a stereo node where left and right channels are processed
// by their own nodes. Nodes must not be shared between channels.
func Split(left, right Node) Stereo {
	return &split{left: left, right: right}
}

func (s *split) TickStereo(l, r float64) (float64, float64) {
	return s.left.Tick(l), s.right.Tick(r)
}

func (s *split) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// stereoChain feeds output of every stereo stage into the next one.
type stereoChain []Stereo

// StereoChain returns a stereo node where output of stage i is input of
// stage i+1.
func StereoChain(stages ...Stereo) Stereo {
	return stereoChain(stages)
}

func (c stereoChain) TickStereo(l, r float64) (float64, float64) {
	for _, s := range c {
		l, r = s.TickStereo(l, r)
	}
	return l, r
}

func (c stereoChain) Reset() {
	for _, s := range c {
		s.Reset()
	}
}

// duplicate feeds both channels with a single mono node.
type duplicate struct {
	Node
}

// Duplicate returns a stereo node which outputs the mono source in both
// channels. The source receives the left input.
func Duplicate(source Node) Stereo {
	return duplicate{Node: source}
}

func (d duplicate) TickStereo(l, _ float64) (float64, float64) {
	v := d.Node.Tick(l)
	return v, v
}
