package window

import "fmt"

// Compose applies the three windows to p and interleaves the resulting
// planes into channels 0, 1 and 2 of a new composite buffer.
func Compose(p *Plane, specs [3]Spec, policy DegeneratePolicy) (*Composite, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := NewComposite(p.Rows, p.Cols)
	for ch, s := range specs {
		g, err := Apply(p, s, policy)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		for i, v := range g.Pix {
			c.Pix[i*3+ch] = v
		}
	}
	return c, nil
}
