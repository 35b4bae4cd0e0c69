package translator

import (
	"crypto/md5"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVersionID_Deterministic(t *testing.T) {
	sum := md5.Sum([]byte("Article_A1_20240101100000"))
	expected := "A1_" + hex.EncodeToString(sum[:])[:12]

	assert.Equal(t, expected, VersionID(articleDoc()))
	assert.Equal(t, VersionID(articleDoc()), VersionID(articleDoc()))
}

func TestVersionID_SecondPrecision(t *testing.T) {
	doc := articleDoc()
	withNanos := doc.Modified.Add(400 * time.Millisecond)
	other := articleDoc()
	other.Modified = &withNanos

	assert.Equal(t, VersionID(doc), VersionID(other))
}

func TestVersionID_ChangesWithModified(t *testing.T) {
	doc := articleDoc()
	later := doc.Modified.Add(time.Second)
	other := articleDoc()
	other.Modified = &later

	assert.NotEqual(t, VersionID(doc), VersionID(other))
}

func TestVersionID_WithoutModifiedUsesNow(t *testing.T) {
	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	defer func() { now = time.Now }()

	doc := articleDoc()
	doc.Modified = nil
	first := VersionID(doc)

	assert.Equal(t, VersionID(articleDoc()), first)

	clock = clock.Add(time.Second)
	assert.NotEqual(t, first, VersionID(doc))
}
