package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Core protocol error codes.
const (
	ErrCodeRequest        byte = 1
	ErrCodeValue          byte = 2
	ErrCodeWindow         byte = 3
	ErrCodePixmap         byte = 4
	ErrCodeAtom           byte = 5
	ErrCodeCursor         byte = 6
	ErrCodeFont           byte = 7
	ErrCodeMatch          byte = 8
	ErrCodeDrawable       byte = 9
	ErrCodeAccess         byte = 10
	ErrCodeAlloc          byte = 11
	ErrCodeColormap       byte = 12
	ErrCodeGContext       byte = 13
	ErrCodeIDChoice       byte = 14
	ErrCodeName           byte = 15
	ErrCodeLength         byte = 16
	ErrCodeImplementation byte = 17
)

// ProtocolError is a request the X server rejected. Code is the server's
// numeric error code; zero means the reply failed without a decodable code
// (for instance a dropped connection).
type ProtocolError struct {
	Op   string
	Code byte
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("x11 %s: error code %d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("x11 %s: error code %d", e.Op, e.Code)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ErrorCode extracts the server error code from err, if it carries one.
func ErrorCode(err error) (byte, bool) {
	var perr *ProtocolError
	if errors.As(err, &perr) && perr.Code != 0 {
		return perr.Code, true
	}
	return 0, false
}

// protocolError converts an xgb reply/check error into a *ProtocolError.
func protocolError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProtocolError{Op: op, Code: xgbErrorCode(err), Err: err}
}

func xgbErrorCode(err error) byte {
	switch err.(type) {
	case xproto.RequestError:
		return ErrCodeRequest
	case xproto.ValueError:
		return ErrCodeValue
	case xproto.WindowError:
		return ErrCodeWindow
	case xproto.PixmapError:
		return ErrCodePixmap
	case xproto.AtomError:
		return ErrCodeAtom
	case xproto.CursorError:
		return ErrCodeCursor
	case xproto.FontError:
		return ErrCodeFont
	case xproto.MatchError:
		return ErrCodeMatch
	case xproto.DrawableError:
		return ErrCodeDrawable
	case xproto.AccessError:
		return ErrCodeAccess
	case xproto.AllocError:
		return ErrCodeAlloc
	case xproto.ColormapError:
		return ErrCodeColormap
	case xproto.GContextError:
		return ErrCodeGContext
	case xproto.IDChoiceError:
		return ErrCodeIDChoice
	case xproto.NameError:
		return ErrCodeName
	case xproto.LengthError:
		return ErrCodeLength
	case xproto.ImplementationError:
		return ErrCodeImplementation
	}
	return 0
}
