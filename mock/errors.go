package mock

import (
	"fmt"
	"net/url"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/wire"
)

func commandName(cmd raw.Command) string {
	return cmd.Group + "/" + cmd.Name
}

func boolPtr(b bool) *bool { return &b }

func failResponse(cmd raw.Command, eid int, text string) wire.RawResponse {
	msg := fmt.Sprintf("eid=%d", eid)
	if text != "" {
		msg += "&text=" + url.QueryEscape(text)
	}
	return wire.RawResponse{
		Heos: wire.RawResponseHeos{Command: commandName(cmd), Result: boolPtr(false), Message: msg},
	}
}

func invalidIdError(cmd raw.Command, idType, idVal string) wire.RawResponse {
	return failResponse(cmd, 2, fmt.Sprintf("Invalid %s '%s'", idType, idVal))
}

func missingArgumentError(cmd raw.Command, arg string) wire.RawResponse {
	return failResponse(cmd, 3, fmt.Sprintf("Missing '%s' argument", arg))
}

func invalidArgumentError(cmd raw.Command, arg string, err error) wire.RawResponse {
	return failResponse(cmd, 3, fmt.Sprintf("Invalid '%s' argument: %v", arg, err))
}

func outOfRangeError(cmd raw.Command, idx, bounds string) wire.RawResponse {
	return failResponse(cmd, 9, fmt.Sprintf("Index (%s) out of range: %s", idx, bounds))
}

func internalError(cmd raw.Command, err error) wire.RawResponse {
	return failResponse(cmd, 11, fmt.Sprintf("Internal error: %v", err))
}

func unrecognizedError(cmd raw.Command) wire.RawResponse {
	return failResponse(cmd, 1, fmt.Sprintf("Unrecognized command %s", commandName(cmd)))
}

// successResponse builds a success reply whose message reflects the
// request's own params plus any extra key/value pairs, matching the
// real device's convention of echoing request parameters back on the
// message line.
func successResponse(cmd raw.Command, extra map[string]string) wire.RawResponse {
	v := url.Values{}
	for k, val := range cmd.Params {
		v.Set(k, val)
	}
	for k, val := range extra {
		v.Set(k, val)
	}
	return wire.RawResponse{
		Heos: wire.RawResponseHeos{Command: commandName(cmd), Result: boolPtr(true), Message: v.Encode()},
	}
}

func messageResponse(cmd raw.Command, message string) wire.RawResponse {
	return wire.RawResponse{
		Heos: wire.RawResponseHeos{Command: commandName(cmd), Result: boolPtr(true), Message: message},
	}
}

func payloadResponse(cmd raw.Command, payload []byte) wire.RawResponse {
	return wire.RawResponse{
		Heos:    wire.RawResponseHeos{Command: commandName(cmd), Result: boolPtr(true), Message: ""},
		Payload: payload,
	}
}
