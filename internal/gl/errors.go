package gl

import "fmt"

// maxDrain bounds how many queued errors CheckError discards; a lost
// context can report errors forever.
const maxDrain = 16

// Error is a GL error flag read with glGetError.
type Error struct {
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("gl error %s (0x%04x)", errorName(e.Code), e.Code)
}

func errorName(code uint32) string {
	switch code {
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebuf:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown"
	}
}

// CheckError returns the first pending GL error and clears the rest.
func CheckError(api API) error {
	code := api.GetError()
	if code == NoError {
		return nil
	}
	for i := 0; i < maxDrain; i++ {
		if api.GetError() == NoError {
			break
		}
	}
	return &Error{Code: code}
}
