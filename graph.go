package crate

// frameKind separates the two ways an id can be on the resolution path. An
// entry whose resolver autowires its own id legitimately shows up once as
// each kind.
type frameKind uint8

const (
	frameEntry frameKind = iota
	frameInject
)

type frame struct {
	id   ID
	kind frameKind
}

// resolutionPath is the stack of ids currently being resolved on one call
// path. It replaces recursion-depth tricks with an explicit guard.
type resolutionPath struct {
	frames []frame
}

// enter pushes id, or fails when id is already being resolved the same way.
func (p *resolutionPath) enter(id ID, kind frameKind) error {
	for _, f := range p.frames {
		if f.id == id && f.kind == kind {
			return errCircularDependency(p.chain(id))
		}
	}

	p.frames = append(p.frames, frame{id: id, kind: kind})

	return nil
}

// exit pops the innermost frame.
func (p *resolutionPath) exit() {
	p.frames = p.frames[:len(p.frames)-1]
}

// depth is the number of frames on the path.
func (p *resolutionPath) depth() int {
	return len(p.frames)
}

// chain returns the ids on the path in discovery order followed by next, with
// an entry frame and its own autowiring frame collapsed into one step.
func (p *resolutionPath) chain(next ID) []ID {
	chain := make([]ID, 0, len(p.frames)+1)
	for _, f := range p.frames {
		if n := len(chain); n > 0 && chain[n-1] == f.id {
			continue
		}
		chain = append(chain, f.id)
	}
	if n := len(chain); n > 0 && chain[n-1] == next {
		return chain
	}
	return append(chain, next)
}
