package noren

import (
	"bytes"
	"encoding/json"
)

const (
	// StatOK is the broker's success discriminator value.
	StatOK = "Ok"
	// StatNotOK is the broker's failure discriminator value.
	StatNotOK = "Not_Ok"
)

// Response is the normalized shape every broker call reduces to. Raw holds
// the verbatim response body so broker-specific fields pass through intact.
type Response struct {
	Stat string          `json:"stat"`
	Emsg string          `json:"emsg,omitempty"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// OK reports whether the broker accepted the request.
func (r Response) OK() bool {
	return r.Stat == StatOK
}

// Fail builds a degraded Not_Ok response with the given message.
func Fail(msg string) Response {
	return Response{Stat: StatNotOK, Emsg: msg}
}

// parseBody normalizes a broker response body. Object bodies carry their own
// stat/emsg discriminator; array bodies only come back on success (the book
// endpoints return bare JSON arrays).
func parseBody(body []byte) Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Fail("empty response from broker")
	}

	if trimmed[0] == '[' {
		return Response{Stat: StatOK, Raw: json.RawMessage(trimmed)}
	}

	var probe struct {
		Stat string `json:"stat"`
		Emsg string `json:"emsg"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Fail("malformed response from broker: " + err.Error())
	}

	resp := Response{Stat: probe.Stat, Emsg: probe.Emsg, Raw: json.RawMessage(trimmed)}
	if resp.Stat == "" {
		resp.Stat = StatOK
	}
	return resp
}
