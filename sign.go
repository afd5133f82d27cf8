package ecoflow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Header names required on every signed request.
const (
	headerAccessKey = "accessKey"
	headerNonce     = "nonce"
	headerTimestamp = "timestamp"
	headerSign      = "sign"
)

// flattenParams expands nested request parameters into a single-level map
// with dot-joined keys, e.g. {"a":{"b":1,"c":2}} becomes {"a.b":"1","a.c":"2"}.
// Slice elements expand as key[i]. Scalar leaves keep their JSON text form so
// the canonical string matches what the server reconstructs.
func flattenParams(params map[string]any) map[string]string {
	flat := make(map[string]string, len(params))
	for key, value := range params {
		flattenValue(flat, key, value)
	}
	return flat
}

func flattenValue(flat map[string]string, key string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for k, nested := range v {
			flattenValue(flat, key+"."+k, nested)
		}
	case []any:
		for i, item := range v {
			flattenValue(flat, key+"["+strconv.Itoa(i)+"]", item)
		}
	default:
		flat[key] = formatScalar(value)
	}
}

// formatScalar renders a scalar parameter the way it appears in JSON text.
// JSON integers arrive from the decoder as integral float64 values and must
// print without a decimal point.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// canonicalize sorts keys lexicographically and joins URL-encoded key=value
// pairs with "&". The result is deterministic regardless of map insertion
// order, which is what makes the signature reproducible.
func canonicalize(flat map[string]string) string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(flat[k]))
	}
	return b.String()
}

// signingString builds the canonical text over which the signature is
// computed: the sorted parameter pairs, then the sorted header pairs. The
// parameter segment and its joining "&" are omitted when there are no
// parameters.
func signingString(params map[string]any, headers map[string]string) string {
	paramSeg := canonicalize(flattenParams(params))
	headerSeg := canonicalize(headers)
	if paramSeg == "" {
		return headerSeg
	}
	return paramSeg + "&" + headerSeg
}

// signPayload computes the lowercase hex-encoded HMAC-SHA256 of payload
// keyed by secretKey.
func signPayload(secretKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// defaultNonce returns a uniform random 6-digit nonce in [100000, 999999].
func defaultNonce() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

// signHeaders generates the signed header set for a request: a fresh nonce,
// the current epoch-millisecond timestamp, and the signature over the request
// parameters plus those headers.
func (c *Client) signHeaders(params map[string]any) map[string]string {
	headers := map[string]string{
		headerAccessKey: c.accessKey,
		headerNonce:     c.nonce(),
		headerTimestamp: strconv.FormatInt(c.now().UnixMilli(), 10),
	}
	headers[headerSign] = signPayload(c.secretKey, signingString(params, headers))
	return headers
}
