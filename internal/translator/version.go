package translator

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"versioned-translator/internal/domain"
)

const versionTimeLayout = "20060102150405"

var now = time.Now

// VersionID fingerprints the document revision as <name>_<12 hex chars>.
// It is deterministic in (doctype, name, modified) at second precision.
// Documents without a modified timestamp hash the current time, so every
// call yields a new version for them.
func VersionID(doc *domain.Document) string {
	modified := now()
	if doc.Modified != nil {
		modified = *doc.Modified
	}

	raw := fmt.Sprintf("%s_%s_%s", doc.Doctype, doc.Name, modified.Format(versionTimeLayout))
	sum := md5.Sum([]byte(raw))
	return doc.Name + "_" + hex.EncodeToString(sum[:])[:12]
}
