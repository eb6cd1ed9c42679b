//go:build cgo

package xslt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"
)

func TestIdentityStringOutputEqualsSource(t *testing.T) {
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)

	want, err := src.Serialize()
	require.NoError(t, err)
	got, err := ApplyStylesheet(ss, src, nil, true, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDocumentOutputMatchesStringOutput(t *testing.T) {
	ss := mustCompile(t, greetingXSL)
	src := mustParse(t, `<person><name>Ann</name></person>`)
	params := []Param{StringParam("who", "Bob")}

	text, err := ApplyStylesheet(ss, src, params, true, nil)
	require.NoError(t, err)

	result, err := NewDocument()
	require.NoError(t, err)
	defer result.Close()
	out, err := ApplyStylesheet(ss, src, params, false, result)
	require.NoError(t, err)
	assert.Empty(t, out)

	reparsed := mustParse(t, text)
	assert.Equal(t, reparsed.RootName(), result.RootName())
	wantCount, err := reparsed.NodeCount()
	require.NoError(t, err)
	gotCount, err := result.NodeCount()
	require.NoError(t, err)
	assert.Equal(t, wantCount, gotCount)
	wantText, err := reparsed.Text()
	require.NoError(t, err)
	gotText, err := result.Text()
	require.NoError(t, err)
	assert.Equal(t, wantText, gotText)

	serialized, ok := SerializeResult(result, ss)
	require.True(t, ok)
	assert.Equal(t, text, serialized)

	// The attached tree points back at the result document.
	nd, ok := trees.Get(result.ref)
	require.True(t, ok)
	ref, ok := ownerRef(nd)
	require.True(t, ok)
	assert.Equal(t, result.ref, ref)
}

func TestApplyRequiresResultDocument(t *testing.T) {
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)
	before := liveCounts()

	_, err := ApplyStylesheet(ss, src, nil, false, nil)
	assert.ErrorIs(t, err, ErrResultRequired)
	assert.Equal(t, before, liveCounts())
}

func TestApplyRejectsUnnamedParam(t *testing.T) {
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)
	before := liveCounts()

	_, err := ApplyStylesheet(ss, src, []Param{{Value: "1"}}, true, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, before, liveCounts())
}

func TestFailedApplyLeavesResultUntouched(t *testing.T) {
	ss := mustCompile(t, terminateXSL)
	src := mustParse(t, sourceXML)
	result := mustParse(t, `<keep>me</keep>`)
	before := liveCounts()

	_, err := ApplyStylesheet(ss, src, []Param{StringParam("p", "v")}, false, result)
	assert.ErrorIs(t, err, ErrApply)

	assert.Equal(t, "keep", result.RootName())
	text, err := result.Text()
	require.NoError(t, err)
	assert.Equal(t, "me", text)
	assert.Equal(t, before, liveCounts())
}

func TestApplyAsyncDocumentMode(t *testing.T) {
	lib := mustOpen(t, Config{Workers: 2})
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)
	result := mustParse(t, `<old/>`)

	var calls atomic.Int32
	f := lib.ApplyStylesheetAsync(ss, src, nil, false, result, func(out string, err error) {
		calls.Add(1)
		assert.NoError(t, err)
		assert.Empty(t, out)
	})
	_, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	want, err := src.Serialize()
	require.NoError(t, err)
	got, err := result.Serialize()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyAsyncResultClosedBeforeCompletion(t *testing.T) {
	lib := mustOpen(t, Config{Workers: 1})
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)
	before := liveCounts()

	result, err := NewDocument()
	require.NoError(t, err)

	release := block(t, lib)
	f := lib.ApplyStylesheetAsync(ss, src, nil, false, result, nil)
	require.NoError(t, result.Close())
	release()

	_, err = f.Wait(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, before, liveCounts())
}

func TestApplyAsyncPinsSourceDocument(t *testing.T) {
	lib := mustOpen(t, Config{Workers: 1})
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)

	release := block(t, lib)
	f := lib.ApplyStylesheetAsync(ss, src, nil, true, nil, nil)

	_, err := src.Detach()
	assert.ErrorIs(t, err, ErrDocumentBusy)
	_, err = CompileStylesheet(src)
	assert.ErrorIs(t, err, ErrDocumentBusy)

	release()
	out, err := f.Wait(context.Background())
	require.NoError(t, err)
	want, err := src.Serialize()
	require.NoError(t, err)
	assert.Equal(t, want, out)

	tree, err := src.Detach()
	require.NoError(t, err)
	require.NoError(t, tree.Close())
}

func TestApplyAsyncImmediateFailureCallsBackOnce(t *testing.T) {
	lib := mustOpen(t, Config{})
	ss := mustCompile(t, identityXSL)
	src := mustParse(t, sourceXML)

	calls := 0
	f := lib.ApplyStylesheetAsync(ss, src, nil, false, nil, func(out string, err error) {
		calls++
		assert.ErrorIs(t, err, ErrResultRequired)
	})
	_, err, ok := f.Result()
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrResultRequired)
	assert.Equal(t, 1, calls)
}

func TestConcurrentAsyncApplyKeepsResultsApart(t *testing.T) {
	const n = 100
	lib := mustOpen(t, Config{Workers: 8})
	before := liveCounts()

	sheets := make([]*Stylesheet, n)
	sources := make([]*Document, n)
	for i := range n {
		doc, err := ParseXML([]byte(taggedXSL(i)), "", ParseOptions{})
		require.NoError(t, err)
		sheets[i], err = CompileStylesheet(doc)
		require.NoError(t, err)
		require.NoError(t, doc.Close())

		sources[i], err = ParseXML([]byte(fmt.Sprintf("<in>doc-%d</in>", i)), "", ParseOptions{})
		require.NoError(t, err)
	}

	var (
		mu        sync.Mutex
		delivered = make(map[int]int)
		wg        sync.WaitGroup
	)
	wg.Add(n)
	for i := range n {
		lib.ApplyStylesheetAsync(sheets[i], sources[i], []Param{StringParam("tag", fmt.Sprintf("p-%d", i))}, true, nil,
			func(out string, err error) {
				defer wg.Done()
				mu.Lock()
				defer mu.Unlock()
				delivered[i]++
				assert.NoError(t, err)
				assert.Equal(t, fmt.Sprintf("sheet-%d:doc-%d:p-%d", i, i, i), out)
			})
	}
	wg.Wait()

	assert.Len(t, delivered, n)
	for i, c := range delivered {
		assert.Equal(t, 1, c, "task %d", i)
	}

	for i := range n {
		require.NoError(t, sheets[i].Close())
		require.NoError(t, sources[i].Close())
	}
	assert.Equal(t, before, liveCounts())
}

const stripSpaceXSL = `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:strip-space elements="*"/>
  <xsl:template match="@*|node()">
    <xsl:copy><xsl:apply-templates select="@*|node()"/></xsl:copy>
  </xsl:template>
</xsl:stylesheet>`

const indentedXML = "<a>\n  <b>x</b>\n  <c>y</c>\n</a>"

func TestStripSpaceLeavesSourceIntact(t *testing.T) {
	ss := mustCompile(t, stripSpaceXSL)
	src := mustParse(t, indentedXML)
	before := liveCounts()

	nodes, err := src.NodeCount()
	require.NoError(t, err)
	require.Equal(t, 8, nodes)
	text, err := src.Serialize()
	require.NoError(t, err)

	out, err := ApplyStylesheet(ss, src, nil, true, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "<a><b>x</b><c>y</c></a>")

	nodes, err = src.NodeCount()
	require.NoError(t, err)
	assert.Equal(t, 8, nodes)
	after, err := src.Serialize()
	require.NoError(t, err)
	assert.Equal(t, text, after)
	assert.Equal(t, before, liveCounts())
}

func TestSharedSourceAcrossConcurrentApplies(t *testing.T) {
	const n = 32
	lib := mustOpen(t, Config{Workers: 8})
	ss := mustCompile(t, stripSpaceXSL)
	src := mustParse(t, indentedXML)
	text, err := src.Serialize()
	require.NoError(t, err)

	futures := make([]*async.Future[string], n)
	for i := range n {
		futures[i] = lib.ApplyStylesheetAsync(ss, src, nil, true, nil, nil)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range n {
			got, err := src.Serialize()
			assert.NoError(t, err)
			assert.Equal(t, text, got)
		}
	}()

	var first string
	for i, f := range futures {
		out, err := f.Wait(context.Background())
		require.NoError(t, err)
		if i == 0 {
			first = out
		}
		assert.Equal(t, first, out)
	}
	wg.Wait()

	nodes, err := src.NodeCount()
	require.NoError(t, err)
	assert.Equal(t, 8, nodes)
}

func TestReadsWaitForRunningTransformation(t *testing.T) {
	src := mustParse(t, sourceXML)

	src.tree.Lock()
	done := make(chan int, 1)
	go func() {
		n, _ := src.NodeCount()
		done <- n
	}()

	select {
	case <-done:
		src.tree.Unlock()
		t.Fatal("read finished while the tree was held")
	case <-time.After(50 * time.Millisecond):
	}
	src.tree.Unlock()

	select {
	case n := <-done:
		assert.Equal(t, 5, n)
	case <-time.After(5 * time.Second):
		t.Fatal("read did not resume")
	}
}
