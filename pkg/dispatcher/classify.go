package dispatcher

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/morezero/media-bridge/pkg/artifact"
	"github.com/morezero/media-bridge/pkg/catalog"
	"github.com/morezero/media-bridge/pkg/upstream"
)

// Classify maps a raised failure to a user-facing message. Rules apply in a
// fixed precedence: timeout, invalid credentials, rate limit, upstream
// validation, network unreachable, then a generic fallback embedding the raw
// error text. The first matching rule wins.
func Classify(err error, op *catalog.Operation) string {
	var terr *upstream.TimeoutError
	if errors.As(err, &terr) {
		return fmt.Sprintf("The %s request timed out after %s. Long media jobs can take a while; raise MEDIA_TIMEOUT_MS to allow more time.",
			op.Name, terr.Budget)
	}

	var serr *upstream.StatusError
	if errors.As(err, &serr) {
		switch serr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Sprintf("The upstream service rejected the credentials (%s). Check FAL_API_KEY.", serr.Status)
		case http.StatusTooManyRequests:
			return fmt.Sprintf("The upstream service is rate limiting requests (%s). Wait a moment and try again.", serr.Status)
		case http.StatusUnprocessableEntity:
			msg := fmt.Sprintf("The upstream service rejected the %s input (%s).", op.Name, serr.Status)
			if serr.Detail != "" {
				msg = fmt.Sprintf("The upstream service rejected the %s input: %s (%s).", op.Name, serr.Detail, serr.Status)
			}
			if hint := inputHint(op); hint != "" {
				msg += " " + hint
			}
			return msg
		}
	}

	var derr *artifact.DownloadError
	if errors.As(err, &derr) {
		return fmt.Sprintf("The generated %s could not be downloaded (%s). The artifact URL may have expired; try again.",
			kindNoun(op.Kind), derr.Status)
	}

	if isUnreachable(err) {
		return fmt.Sprintf("Could not reach the upstream service: %v. Check network connectivity and FAL_BASE_URL.", err)
	}

	return fmt.Sprintf("%s failed: %v", op.Name, err)
}

// isUnreachable matches connection-level failures: a refused TCP connect or a
// hostname that does not resolve.
func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// inputHint adds operation-specific guidance to upstream validation errors.
func inputHint(op *catalog.Operation) string {
	switch op.Name {
	case "swap_face", "generate_sticker":
		return "Try clearer, front-facing face photos."
	case "lipsync_video":
		return "Make sure the audio track contains clear speech."
	}
	switch op.Kind {
	case catalog.KindImage:
		return "Try rephrasing the prompt or using a different source image."
	case catalog.KindVideo:
		return "Try rephrasing the prompt or a shorter duration."
	}
	return ""
}

// noArtifactMessage is the error for generation operations whose upstream
// reply contained no locator.
func noArtifactMessage(op *catalog.Operation) string {
	return fmt.Sprintf("No %s was generated for %s. Try rephrasing the request.", kindNoun(op.Kind), op.Name)
}

func kindNoun(kind catalog.MediaKind) string {
	switch kind {
	case catalog.KindVideo:
		return "video"
	case catalog.KindAudio:
		return "audio track"
	case catalog.KindModel3D:
		return "3D model"
	default:
		return "image"
	}
}
