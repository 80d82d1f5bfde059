package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// respondVersioned writes a 200 JSON body tagged with a weak ETag bound to
// scope (one workout, one template, or one user's list), answering 304
// when the caller already holds that version.
func respondVersioned(ctx *gin.Context, scope string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	tag := versionTag(scope, body)
	ctx.Header("ETag", tag)

	if holdsVersion(ctx.GetHeader("If-None-Match"), tag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func versionTag(scope string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write(body)

	return `W/"` + hex.EncodeToString(h.Sum(nil)[:12]) + `"`
}

// holdsVersion uses weak comparison: W/ prefixes are ignored on both sides.
func holdsVersion(ifNoneMatch, tag string) bool {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}

	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
