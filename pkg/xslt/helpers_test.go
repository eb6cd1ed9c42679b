//go:build cgo

package xslt

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

const identityXSL = `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:template match="@*|node()">
    <xsl:copy><xsl:apply-templates select="@*|node()"/></xsl:copy>
  </xsl:template>
</xsl:stylesheet>`

const greetingXSL = `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:param name="who" select="'nobody'"/>
  <xsl:template match="/">
    <greeting to="{$who}"><xsl:value-of select="/person/name"/></greeting>
  </xsl:template>
</xsl:stylesheet>`

const terminateXSL = `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:template match="/">
    <xsl:message terminate="yes">stop</xsl:message>
  </xsl:template>
</xsl:stylesheet>`

const sourceXML = `<a x="1"><b>one</b><c>two</c></a>`

func taggedXSL(i int) string {
	return fmt.Sprintf(`<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:output method="text"/>
  <xsl:param name="tag"/>
  <xsl:template match="/">sheet-%d:<xsl:value-of select="/in"/>:<xsl:value-of select="$tag"/></xsl:template>
</xsl:stylesheet>`, i)
}

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseXML([]byte(s), "", ParseOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func mustCompile(t *testing.T, s string) *Stylesheet {
	t.Helper()
	ss, err := CompileStylesheet(mustParse(t, s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })
	return ss
}

func mustOpen(t *testing.T, cfg Config) *Library {
	t.Helper()
	lib, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type counts struct {
	docs, sheets, params int64
}

func liveCounts() counts {
	return counts{backend.LiveDocs(), backend.LiveSheets(), backend.LiveParams()}
}
