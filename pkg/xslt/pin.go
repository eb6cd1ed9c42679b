package xslt

type pinner interface {
	unpin()
}

// guard releases every pin it holds, newest first. It is released exactly
// once by whichever path ends the operation.
type guard struct {
	held []pinner
}

func (g *guard) add(p pinner) {
	g.held = append(g.held, p)
}

func (g *guard) release() {
	for i := len(g.held) - 1; i >= 0; i-- {
		g.held[i].unpin()
	}
	g.held = nil
}
