package assembler

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/cpcasm/token"
)

// Listings with fewer siblings are always built sequentially.
const parallelThreshold = 32

// ProcessedToken is a token with the state its directive keeps between
// passes.
type ProcessedToken struct {
	Token token.Token

	ctx   *token.ParseContext
	state any
}

// listState is the body of a directive with a single, static body.
type listState struct {
	body []*ProcessedToken
}

// ifState caches the branches built so far and the used/nused decisions.
type ifState struct {
	decisions map[int]bool
	branches  map[int][]*ProcessedToken // len(Tests) is the else branch
}

type switchState struct {
	cases []*listState
	def   *listState
}

// confinedState remembers the size of the body in the previous pass.
type confinedState struct {
	listState
	size  int
	known bool
}

// crunchState remembers the raw and packed bytes of the previous pass.
type crunchState struct {
	listState
	raw    []byte
	packed []byte
	valid  bool
}

type includedFile struct {
	listing token.Listing
	body    []*ProcessedToken
}

type includeState struct {
	cache map[string]*includedFile
}

type binaryFile struct {
	data     []byte
	stripped bool
}

type incbinKey struct {
	path   string
	offset int
	length int
}

type incbinState struct {
	files  map[string]*binaryFile
	packed map[incbinKey][]byte
}

// callState is the expansion of a macro or struct call.
type callState struct {
	kind string
	name string
	code string
	body []*ProcessedToken
}

type functionState struct {
	fn *Function
}

type warningState struct {
	rendered string
	inner    *ProcessedToken
}

// build turns a listing into processed tokens. Bodies known from the
// listing alone are built now; the others when first visited.
func (env *Env) build(listing token.Listing, ctx *token.ParseContext) (pts []*ProcessedToken, err error) {
	env.built.Add(1)
	pts = make([]*ProcessedToken, len(listing))

	if !env.opts.ParallelBuild || len(listing) < parallelThreshold {
		for n, tok := range listing {
			pts[n], err = env.buildToken(tok, ctx)
			if err != nil {
				return nil, relocate(tok.Span(), err)
			}
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for n, tok := range listing {
		g.Go(func() error {
			pt, err := env.buildToken(tok, ctx)
			if err != nil {
				return relocate(tok.Span(), err)
			}
			pts[n] = pt
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		pts = nil
	}
	return
}

func (env *Env) buildList(listing token.Listing, ctx *token.ParseContext) (ls *listState, err error) {
	body, err := env.build(listing, ctx)
	if err != nil {
		return
	}
	ls = &listState{body: body}
	return
}

func (env *Env) buildToken(tok token.Token, ctx *token.ParseContext) (pt *ProcessedToken, err error) {
	pt = &ProcessedToken{Token: tok, ctx: ctx}

	switch tok := tok.(type) {
	case *token.If:
		pt.state = &ifState{
			decisions: map[int]bool{},
			branches:  map[int][]*ProcessedToken{},
		}
	case *token.Repeat:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.RepeatUntil:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.While:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.For:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.Iterate:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.Rorg:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.Module:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.RestrictedAssemblingEnvironment:
		pt.state, err = env.buildList(tok.Body, ctx)
	case *token.Confined:
		st := &confinedState{}
		st.body, err = env.build(tok.Body, ctx)
		pt.state = st
	case *token.CrunchedSection:
		st := &crunchState{}
		st.body, err = env.build(tok.Body, ctx)
		pt.state = st
	case *token.Switch:
		st := &switchState{cases: make([]*listState, len(tok.Cases))}
		for n, c := range tok.Cases {
			if st.cases[n], err = env.buildList(c.Body, ctx); err != nil {
				return
			}
		}
		if tok.Default != nil {
			st.def, err = env.buildList(tok.Default, ctx)
		}
		pt.state = st
	case *token.Include:
		pt.state = &includeState{cache: map[string]*includedFile{}}
	case *token.Incbin:
		pt.state = &incbinState{
			files:  map[string]*binaryFile{},
			packed: map[incbinKey][]byte{},
		}
	case *token.Function:
		pt.state = &functionState{}
	case *token.Warning:
		st := &warningState{}
		st.inner, err = env.buildToken(tok.Inner, ctx)
		pt.state = st
	}

	return
}
