package xslt

import (
	"context"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// applyJob carries one transformation from validation to completion. Every
// wrapper it reads is pinned from prepareApply until run returns.
type applyJob struct {
	sheet        backend.Sheet
	src          backend.Doc
	srcDoc       *Document
	params       *backend.Params
	outputString bool
	result       *Document
	pins         guard
}

type applyOutput struct {
	text string
	nd   backend.Doc
}

func prepareApply(ss *Stylesheet, src *Document, params []Param, outputString bool, result *Document) (*applyJob, error) {
	if ss == nil || src == nil {
		return nil, ErrInvalidArgument
	}
	if !outputString && result == nil {
		return nil, ErrResultRequired
	}
	vec, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	j := &applyJob{params: vec, outputString: outputString}

	if j.sheet, err = ss.pin(); err != nil {
		j.abandon()
		return nil, err
	}
	j.pins.add(ss)
	if j.src, err = src.pin(); err != nil {
		j.abandon()
		return nil, err
	}
	j.pins.add(src)
	j.srcDoc = src
	if !outputString {
		if _, err = result.pin(); err != nil {
			j.abandon()
			return nil, err
		}
		j.pins.add(result)
		j.result = result
	}
	return j, nil
}

// abandon undoes prepareApply for a job that never runs.
func (j *applyJob) abandon() {
	j.params.Release()
	j.pins.release()
}

// run performs the native work. The source tree is held exclusively while
// the engine runs. The parameter vector is released on the goroutine that
// made the call, then every pin is dropped.
func (j *applyJob) run() (applyOutput, error) {
	defer j.pins.release()
	defer j.params.Release()

	j.srcDoc.tree.Lock()
	nd := backend.ApplyStylesheet(j.sheet, j.src, j.params)
	j.srcDoc.tree.Unlock()
	if nd == nil {
		return applyOutput{}, ErrApply
	}
	if !j.outputString {
		return applyOutput{nd: nd}, nil
	}
	text, _ := backend.SaveResult(nd, j.sheet)
	backend.FreeDoc(nd)
	return applyOutput{text: text}, nil
}

// finish installs a produced tree in the result document. If the result
// document was closed meanwhile the tree is destroyed.
func (j *applyJob) finish(out applyOutput, err error) (string, error) {
	if err != nil {
		if out.nd != nil {
			backend.FreeDoc(out.nd)
		}
		return "", err
	}
	if j.outputString {
		return out.text, nil
	}
	if err := j.result.attach(out.nd); err != nil {
		backend.FreeDoc(out.nd)
		return "", err
	}
	return "", nil
}

// ApplyStylesheet runs ss over src. With outputString it returns the
// serialized result using the stylesheet's output settings. Otherwise the
// result replaces the content of result, which must not be nil, and the
// returned string is empty. On failure result is left untouched.
//
// Parameter values are XPath expressions; use StringParam for literals.
func ApplyStylesheet(ss *Stylesheet, src *Document, params []Param, outputString bool, result *Document) (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	j, err := prepareApply(ss, src, params, outputString, result)
	if err != nil {
		return "", err
	}
	out, err := j.run()
	s, err := j.finish(out, err)
	if err != nil {
		packageLogger().Debug(context.Background(), "stylesheet application failed", "error", err)
	}
	return s, err
}

// ApplyStylesheetAsync is ApplyStylesheet on the worker pool. Inputs are
// validated and pinned on the calling goroutine, so closing them while the
// task runs is deferred until it ends. In document mode the result is
// attached on the completion loop. done, when non-nil, is invoked exactly
// once.
func (l *Library) ApplyStylesheetAsync(ss *Stylesheet, src *Document, params []Param, outputString bool, result *Document, done func(string, error)) *async.Future[string] {
	fail := func(err error) *async.Future[string] {
		if done != nil {
			done("", err)
		}
		return async.Resolved("", err)
	}
	if l == nil || l.closed.Load() {
		return fail(ErrLibraryClosed)
	}
	j, err := prepareApply(ss, src, params, outputString, result)
	if err != nil {
		return fail(err)
	}

	f, err := async.Submit(l.runner, "apply", j.run,
		func(out applyOutput, err error) (string, error) {
			s, err := j.finish(out, err)
			if err != nil {
				l.log.Debug(context.Background(), "stylesheet application failed", "error", err)
			}
			if done != nil {
				done(s, err)
			}
			return s, err
		})
	if err != nil {
		j.abandon()
		return fail(remapError(err))
	}
	return f
}

// SerializeResult serializes a document produced by ApplyStylesheet using
// the output settings of ss. ok is false when there was nothing to write.
func SerializeResult(doc *Document, ss *Stylesheet) (out string, ok bool) {
	sheet, err := ss.pin()
	if err != nil {
		return "", false
	}
	defer ss.unpin()
	_ = doc.read(func(nd backend.Doc) error {
		out, ok = backend.SaveResult(nd, sheet)
		return nil
	})
	return out, ok
}
