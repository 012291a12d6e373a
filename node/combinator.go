package node

type (
	// sum mixes outputs of children.
	sum []Node
	// product multiplies outputs of children.
	product []Node
	// chain feeds output of every stage into the next one.
	chain []Node
)

// Sum returns a node which adds outputs of all children. Every child
// receives the same input. There is no gain compensation, callers must
// scale children to avoid clipping.
func Sum(children ...Node) Node {
	return sum(children)
}

func (s sum) Tick(in float64) float64 {
	var out float64
	for _, n := range s {
		out += n.Tick(in)
	}
	return out
}

func (s sum) Reset() {
	for _, n := range s {
		n.Reset()
	}
}

// Product returns a node which multiplies outputs of all children. Every
// child receives the same input. It's used for amplitude modulation, e.g.
// envelope times carrier.
func Product(children ...Node) Node {
	return product(children)
}

func (p product) Tick(in float64) float64 {
	out := 1.0
	for _, n := range p {
		out *= n.Tick(in)
	}
	return out
}

func (p product) Reset() {
	for _, n := range p {
		n.Reset()
	}
}

// Chain returns a node where output of stage i is input of stage i+1.
func Chain(stages ...Node) Node {
	return chain(stages)
}

func (c chain) Tick(in float64) float64 {
	for _, n := range c {
		in = n.Tick(in)
	}
	return in
}

func (c chain) Reset() {
	for _, n := range c {
		n.Reset()
	}
}

// Stack is a sum of nodes built from independent parameter sets, e.g.
// oscillators of a harmonic series.
type Stack struct {
	children []Node
}

// StackOf builds a node for every parameter set and stacks them. The first
// construction error is returned.
func StackOf[P any](params []P, build func(P) (Node, error)) (*Stack, error) {
	children := make([]Node, 0, len(params))
	for _, p := range params {
		n, err := build(p)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return &Stack{children: children}, nil
}

// Tick sums outputs of all stacked nodes.
func (s *Stack) Tick(in float64) float64 {
	var out float64
	for _, n := range s.children {
		out += n.Tick(in)
	}
	return out
}

// Len returns number of stacked nodes.
func (s *Stack) Len() int {
	return len(s.children)
}

// Reset resets all stacked nodes.
func (s *Stack) Reset() {
	for _, n := range s.children {
		n.Reset()
	}
}
