// serialize.go — export, comparison, and analysis boundaries for TryError.
//
// These operations exist so TryError values can cross a process boundary
// (logs, queues, RPC payloads) and so callers can compare, bucket, and
// summarize large batches of errors without reaching into unexported fields.
// Serialization is deliberately lossy on Cause: the wire format only needs
// enough to reconstruct a usable TryError, not byte-identical internals.
package tryerr

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Envelope is the wire shape produced by Serialize and consumed by Deserialize.
type Envelope struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Code      string         `json:"code,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Cause     string         `json:"cause,omitempty"`
	Source    string         `json:"source,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Stack     []string       `json:"stack,omitempty"`
}

// Serialize renders e as a JSON Envelope. It builds the document
// incrementally with sjson rather than a single struct marshal, so optional
// sections (context, cause, stack) are omitted entirely instead of emitting
// empty placeholders.
func Serialize(e TryError) ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "type", e.Type()); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "message", rawMessageOf(e)); err != nil {
		return nil, err
	}
	if c := e.CodeVal(); c != "" {
		if doc, err = sjson.Set(doc, "code", string(c)); err != nil {
			return nil, err
		}
	}
	if ctx := e.Context(); len(ctx) > 0 {
		if doc, err = sjson.Set(doc, "context", ctx); err != nil {
			return nil, err
		}
	}
	if cause := e.Unwrap(); cause != nil {
		if doc, err = sjson.Set(doc, "cause", cause.Error()); err != nil {
			return nil, err
		}
	}
	if src := e.Source(); src != "" {
		if doc, err = sjson.Set(doc, "source", src); err != nil {
			return nil, err
		}
	}
	if ts := e.Timestamp(); ts != 0 {
		if doc, err = sjson.Set(doc, "timestamp", ts); err != nil {
			return nil, err
		}
	}
	if st := e.StackTrace(); len(st) > 0 {
		lines := make([]string, len(st))
		for i, fr := range st {
			lines[i] = fmt.Sprintf("%s %s:%d", fr.Function, fr.File, fr.Line)
		}
		if doc, err = sjson.Set(doc, "stack", lines); err != nil {
			return nil, err
		}
	}
	return []byte(doc), nil
}

// Deserialize reconstructs a TryError from bytes produced by Serialize (or
// any JSON document shaped like Envelope). Cause is rebuilt as a plain
// errors.New-style leaf: the original dynamic type of the cause is not
// recoverable across a wire boundary.
func Deserialize(data []byte) (TryError, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var cause error
	if env.Cause != "" {
		cause = fmt.Errorf("%s", env.Cause)
	}
	ctx := make([]KV, 0, len(env.Context))
	for k, v := range env.Context {
		ctx = append(ctx, KV{Key: k, Val: v})
	}
	sort.Slice(ctx, func(i, j int) bool { return ctx[i].Key < ctx[j].Key })

	return NewFromRaw(RawFields{
		Type:      env.Type,
		Msg:       env.Message,
		Code:      Code(env.Code),
		Ctx:       ctx,
		Cause:     cause,
		Source:    env.Source,
		Timestamp: env.Timestamp,
	}), nil
}

// PeekField extracts a single field from serialized bytes without fully
// decoding the Envelope, using gjson's dotted path syntax (e.g. "context.user_id").
func PeekField(data []byte, path string) (string, bool) {
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// IsTryError reports whether err's dynamic type was produced by this package
// and carries the package's brand. Other types implementing the TryError
// method set do not qualify.
func IsTryError(err error) bool {
	te, ok := err.(*tryError)
	return ok && te != nil && te.brand == trueBrand
}

// AreEqual reports whether a and b have the same type, code, message,
// context, and cause text, ignoring Source/Timestamp/Stack (capture-site
// metadata that legitimately differs between otherwise-identical errors).
func AreEqual(a, b TryError) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ca, cb := a.Unwrap(), b.Unwrap()
	if (ca == nil) != (cb == nil) || (ca != nil && ca.Error() != cb.Error()) {
		return false
	}
	return fingerprintDoc(a) == fingerprintDoc(b)
}

// Clone returns a value-identical copy of e, safe to mutate independently via
// further fluent calls (the two no longer share a *lazyState).
func Clone(e TryError) TryError {
	if e == nil {
		return nil
	}
	return NewFromRaw(RawFields{
		Type:      e.Type(),
		Msg:       rawMessageOf(e),
		Code:      e.CodeVal(),
		Ctx:       fieldsFromMap(e.Context()),
		Cause:     e.Unwrap(),
		Source:    e.Source(),
		Timestamp: e.Timestamp(),
		Stack:     e.StackTrace(),
	})
}

// rawMessageOf returns the unformatted message for e, avoiding the
// "code: msg" concatenation Error() applies for tryerr's own concrete type,
// so round-tripping through Serialize/Clone does not double-prefix the code.
func rawMessageOf(e TryError) string {
	if te, ok := e.(*tryError); ok {
		return te.rawMessage()
	}
	return e.Error()
}

func fieldsFromMap(m map[string]any) []KV {
	out := make([]KV, 0, len(m))
	for k, v := range m {
		out = append(out, KV{Key: k, Val: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// fingerprintDoc renders the identity-relevant subset of e (type, code,
// message, context) as "key=value" parts joined by "|", with the context as
// canonical JSON, for hashing/comparison.
func fingerprintDoc(e TryError) string {
	var sb fingerprintBuilder
	sb.writeString("type", e.Type())
	sb.writeString("code", string(e.CodeVal()))
	sb.writeString("message", rawMessageOf(e))
	sb.writeString("context", canonicalJSON(fieldsFromContext(e)))
	return sb.String()
}

func fieldsFromContext(e TryError) fields {
	m := e.Context()
	fs := fieldsFromMap(m)
	return fields(fs)
}

type fingerprintBuilder struct {
	parts []string
}

func (b *fingerprintBuilder) writeString(k, v string) {
	b.parts = append(b.parts, k+"="+v)
}

func (b *fingerprintBuilder) String() string {
	out := ""
	for i, p := range b.parts {
		if i > 0 {
			out += "|"
		}
		out += p
	}
	return out
}

// Fingerprint returns a stable hex-encoded hash identifying e's type, code,
// message, and context shape. Two errors with the same Fingerprint are
// considered the "same kind of error" for deduplication/grouping purposes,
// regardless of capture-site metadata.
func Fingerprint(e TryError) string {
	if e == nil {
		return ""
	}
	sum := sha256.Sum256([]byte(fingerprintDoc(e)))
	return hex.EncodeToString(sum[:])
}

// Diff reports, for each context key present in a or b, the differing
// values. Keys present in only one side have the other side recorded as nil.
// It also reports "message" and "code" when they differ.
func Diff(a, b TryError) map[string]any {
	out := make(map[string]any)
	if a == nil || b == nil {
		out["nil"] = []any{a == nil, b == nil}
		return out
	}
	if a.Error() != b.Error() {
		out["message"] = []any{a.Error(), b.Error()}
	}
	if a.CodeVal() != b.CodeVal() {
		out["code"] = []any{a.CodeVal(), b.CodeVal()}
	}
	ca, cb := a.Context(), b.Context()
	keys := make(map[string]struct{}, len(ca)+len(cb))
	for k := range ca {
		keys[k] = struct{}{}
	}
	for k := range cb {
		keys[k] = struct{}{}
	}
	for k := range keys {
		va, oka := ca[k]
		vb, okb := cb[k]
		if !oka || !okb || fmt.Sprint(va) != fmt.Sprint(vb) {
			out["context."+k] = []any{va, vb}
		}
	}
	return out
}

// Group buckets errs by Fingerprint, preserving first-seen order within each
// bucket.
func Group(errs []TryError) map[string][]TryError {
	out := make(map[string][]TryError)
	for _, e := range errs {
		if e == nil {
			continue
		}
		fp := Fingerprint(e)
		out[fp] = append(out[fp], e)
	}
	return out
}

// Summary returns counts of errs by classification Code.
func Summary(errs []TryError) map[Code]int {
	out := make(map[Code]int)
	for _, e := range errs {
		if e == nil {
			continue
		}
		out[e.CodeVal()]++
	}
	return out
}

// Correlate buckets errs by the string value of a shared context key (e.g.
// "request_id" or "tenant"), skipping errors that lack the key or whose
// value is not a string.
func Correlate(errs []TryError, key string) map[string][]TryError {
	out := make(map[string][]TryError)
	for _, e := range errs {
		if e == nil {
			continue
		}
		v, ok := e.Context()[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[s] = append(out[s], e)
	}
	return out
}
