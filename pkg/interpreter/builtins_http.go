package interpreter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerHTTPBuiltins(r builtinRegistry) {
	textVerb := func(method, signature string) {
		r.add("http_"+strings.ToLower(method), signature, fmt.Sprintf("Send a %s request and return the response body.", method),
			func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				resp, err := i.httpCall(method, args)
				if err != nil {
					return nil, err
				}
				return runtime.StringValue{Val: string(resp.Body)}, nil
			})
	}
	textVerb(http.MethodGet, "url")
	textVerb(http.MethodPost, "url, data")
	textVerb(http.MethodPut, "url, data")
	textVerb(http.MethodDelete, "url")
	textVerb(http.MethodPatch, "url, data")

	headerVerb := func(method string) {
		r.add("http_"+strings.ToLower(method), "url", fmt.Sprintf("Send a %s request and return the response headers.", method),
			func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				resp, err := i.httpCall(method, args)
				if err != nil {
					return nil, err
				}
				return headerDict(resp.Header), nil
			})
	}
	headerVerb(http.MethodHead)
	headerVerb(http.MethodOptions)

	r.add("http_request", "method, url, data=", "Send a request and return the response object.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			method, err := argString(args, 0, "method")
			if err != nil {
				return nil, err
			}
			return i.httpCall(strings.ToUpper(method), args[1:])
		})

	r.add("http_status", "response", "Return the status code of a response.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return runtime.IntegerValue{Val: int64(resp.StatusCode)}, nil
		}))
	r.add("http_text", "response", "Return the body of a response as text.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return runtime.StringValue{Val: string(resp.Body)}, nil
		}))
	r.add("http_json", "response", "Decode the body of a response as JSON.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return decodeJSON(resp.Body)
		}))
	r.add("http_headers", "response", "Return the headers of a response as a dict.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return headerDict(resp.Header), nil
		}))
	r.add("http_url", "response", "Return the final URL of a response.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return runtime.StringValue{Val: resp.URL}, nil
		}))
	r.add("http_ok", "response", "Report whether the status code is below 400.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			return runtime.BoolValue{Val: resp.OK()}, nil
		}))
	r.add("http_raise_for_status", "response", "Raise HTTPError for a 4xx or 5xx response.",
		responseFunc(func(resp *runtime.ResponseValue) (runtime.Value, error) {
			if resp.OK() {
				return runtime.Null, nil
			}
			class := "Client"
			if resp.StatusCode >= 500 {
				class = "Server"
			}
			return nil, httpErrorf("%d %s Error: %s for url: %s", resp.StatusCode, class, http.StatusText(resp.StatusCode), resp.URL)
		}))
}

// httpCall sends method to args[0] with an optional body in args[1] and
// reads the whole response.
func (i *Interpreter) httpCall(method string, args []runtime.Value) (*runtime.ResponseValue, error) {
	target, err := argString(args, 0, "url")
	if err != nil {
		return nil, err
	}
	var (
		body        io.Reader
		contentType string
	)
	if data, ok := optionalArg(args, 1); ok {
		switch d := data.(type) {
		case *runtime.DictValue:
			form := url.Values{}
			for _, k := range d.Keys() {
				v, _, _ := d.Get(k)
				form.Add(runtime.ToString(k), runtime.ToString(v))
			}
			body, contentType = strings.NewReader(form.Encode()), "application/x-www-form-urlencoded"
		default:
			body = strings.NewReader(runtime.ToString(d))
		}
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, httpErrorf("%s", err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	i.opts.Logger.Debug("http request", "method", method, "url", target)
	resp, err := i.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, httpErrorf("%s", err.Error())
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpErrorf("%s", err.Error())
	}
	return &runtime.ResponseValue{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        resp.Request.URL.String(),
		Header:     resp.Header,
		Body:       payload,
	}, nil
}

func responseFunc(fn func(*runtime.ResponseValue) (runtime.Value, error)) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		resp, ok := args[0].(*runtime.ResponseValue)
		if !ok {
			return nil, typeErrorf("expected a response object, got %s", runtime.TypeName(args[0]))
		}
		return fn(resp)
	}
}

func headerDict(h http.Header) *runtime.DictValue {
	out := runtime.NewDict()
	for _, name := range slices.Sorted(maps.Keys(h)) {
		_ = out.Set(runtime.StringValue{Val: name}, runtime.StringValue{Val: strings.Join(h[name], ", ")})
	}
	return out
}

// decodeJSON converts a JSON document into runtime values. Object key order
// is kept.
func decodeJSON(data []byte) (runtime.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeJSONValue(dec)
	if err != nil {
		return nil, valueErrorf("invalid JSON: %s", err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, valueErrorf("invalid JSON: extra data after document")
	}
	return val, nil
}

func decodeJSONValue(dec *json.Decoder) (runtime.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			var items []runtime.Value
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return runtime.NewList(items), nil
		case '{':
			obj := runtime.NewDict()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				if err := obj.Set(runtime.StringValue{Val: key}, val); err != nil {
					return nil, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return runtime.IntegerValue{Val: n}, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: f}, nil
	case string:
		return runtime.StringValue{Val: t}, nil
	case bool:
		return runtime.BoolValue{Val: t}, nil
	case nil:
		return runtime.Null, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", t)
	}
}
