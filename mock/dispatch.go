package mock

import (
	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/internal/util"
	"github.com/mvandenberg/heos-go/wire"
)

// Dispatch decodes and processes one request line's Command, returning
// the response the real wire contract would produce. It is the single
// entry point Conn drives; callers wanting direct in-process access
// (tests) can call it without going through a byte stream at all.
func (s *System) Dispatch(cmd raw.Command) wire.RawResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Group {
	case "system":
		return s.dispatchSystem(cmd)
	case "player":
		return s.dispatchPlayer(cmd)
	case "group":
		return s.dispatchGroup(cmd)
	case "browse":
		return s.dispatchBrowse(cmd)
	default:
		return unrecognizedError(cmd)
	}
}

func (s *System) dispatchSystem(cmd raw.Command) wire.RawResponse {
	switch cmd.Name {
	case "register_for_change_events":
		if _, ok := optionalParam(cmd, "enable"); !ok {
			return missingArgumentError(cmd, "enable")
		}
		return successResponse(cmd, nil)

	case "check_account":
		if s.SignedIn {
			return messageResponse(cmd, "signed_in&un="+s.Username)
		}
		return messageResponse(cmd, "un_signed_in")

	case "sign_in":
		unRaw, errResp, ok := requireParam(cmd, "un")
		if !ok {
			return errResp
		}
		un, err := util.ValidateIdentifier(unRaw)
		if err != nil {
			return invalidArgumentError(cmd, "un", err)
		}
		if _, errResp, ok := requireParam(cmd, "pw"); !ok {
			return errResp
		}
		s.SignedIn = true
		s.Username = un
		return messageResponse(cmd, "signed_in&un="+un)

	case "sign_out":
		s.SignedIn = false
		s.Username = ""
		return successResponse(cmd, nil)

	case "heart_beat":
		return successResponse(cmd, nil)

	case "reboot":
		return successResponse(cmd, nil)

	default:
		return unrecognizedError(cmd)
	}
}
