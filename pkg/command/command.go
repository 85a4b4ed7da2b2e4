// Package command translates between RESP wire Values and typed engine Commands/Results: Decode turns an
// incoming Array of BulkStrings into an engine.Command, Encode turns an engine.Result back into a Value.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nobletooth/kiwidb/pkg/engine"
	"github.com/nobletooth/kiwidb/pkg/resp"
)

// Decode parses v as a command. v must be an Array of BulkStrings; the first element names the command.
func Decode(v resp.Value) (engine.Command, error) {
	tokens, err := toBulkStrings(v)
	if err != nil {
		return engine.Command{}, err
	}
	if len(tokens) == 0 {
		return engine.Command{}, errors.New("invalid command: it should be an array of bulk strings")
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "GET":
		key, err := consumeArg("get", &args)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.Get, Key: []byte(key)}, nil
	case "SET":
		return decodeSet(&args)
	case "INCR":
		key, err := consumeArg("incr", &args)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.Incr, Key: []byte(key)}, nil
	case "TTL":
		key, err := consumeArg("ttl", &args)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.Ttl, Key: []byte(key)}, nil
	case "APPEND":
		key, err := consumeArg("append", &args)
		if err != nil {
			return engine.Command{}, err
		}
		value, err := consumeArg("append", &args)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.Append, Key: []byte(key), Value: []byte(value)}, nil
	case "STRLEN":
		key, err := consumeArg("strlen", &args)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.Strlen, Key: []byte(key)}, nil
	case "CLIENT":
		return engine.Command{Type: engine.Client}, nil
	default:
		return engine.Command{}, fmt.Errorf("unknown command '%s'", name)
	}
}

// decodeSet walks the SET option tokens left-to-right; a later token overrides an earlier one within the
// same conflicting category (expiration kind, or NX/XX), matching §4.6 of the command grammar.
func decodeSet(args *[]string) (engine.Command, error) {
	key, err := consumeArg("set", args)
	if err != nil {
		return engine.Command{}, err
	}
	value, err := consumeArg("set", args)
	if err != nil {
		return engine.Command{}, err
	}

	var expiration *engine.Expiration
	var returnPrevious bool
	var condition *engine.SetCondition

	for len(*args) > 0 {
		token := (*args)[0]
		*args = (*args)[1:]
		switch token {
		case "EX":
			n, err := consumeInteger("set", args)
			if err != nil {
				return engine.Command{}, err
			}
			expiration = &engine.Expiration{Kind: engine.Seconds, N: n}
		case "PX":
			n, err := consumeInteger("set", args)
			if err != nil {
				return engine.Command{}, err
			}
			expiration = &engine.Expiration{Kind: engine.Milliseconds, N: n}
		case "EXAT":
			n, err := consumeInteger("set", args)
			if err != nil {
				return engine.Command{}, err
			}
			expiration = &engine.Expiration{Kind: engine.UnixTimeSeconds, N: n}
		case "PXAT":
			n, err := consumeInteger("set", args)
			if err != nil {
				return engine.Command{}, err
			}
			expiration = &engine.Expiration{Kind: engine.UnixTimeMilliseconds, N: n}
		case "KEEPTTL":
			expiration = &engine.Expiration{Kind: engine.Keep}
		case "GET":
			returnPrevious = true
		case "NX":
			c := engine.IfNotExists
			condition = &c
		case "XX":
			c := engine.IfExists
			condition = &c
		default:
			return engine.Command{}, fmt.Errorf("unexpected argument '%s'", token)
		}
	}

	return engine.Command{
		Type: engine.Set, Key: []byte(key), Value: []byte(value),
		Expiration: expiration, ReturnPrevious: returnPrevious, Condition: condition,
	}, nil
}

func consumeArg(cmdName string, args *[]string) (string, error) {
	if len(*args) == 0 {
		return "", fmt.Errorf("wrong number of arguments for '%s' command", cmdName)
	}
	v := (*args)[0]
	*args = (*args)[1:]
	return v, nil
}

func consumeInteger(cmdName string, args *[]string) (int64, error) {
	v, err := consumeArg(cmdName, args)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %s", v)
	}
	return n, nil
}

// toBulkStrings validates v is an Array of BulkStrings and returns their payloads in order.
func toBulkStrings(v resp.Value) ([]string, error) {
	if v.Tag != resp.Array {
		return nil, errors.New("invalid command: it should be an array")
	}
	tokens := make([]string, 0, len(v.Array))
	for _, item := range v.Array {
		if item.Tag != resp.BulkString {
			return nil, errors.New("invalid command: it should be an array of bulk strings")
		}
		tokens = append(tokens, item.Str)
	}
	return tokens, nil
}

// Encode translates an engine Result into the RESP Value the protocol layer writes back to the client.
func Encode(result engine.Result) resp.Value {
	switch result.Tag {
	case engine.ResultOk:
		return resp.NewSimpleString("OK")
	case engine.ResultNull:
		return resp.NewNull()
	case engine.ResultBulkString:
		return resp.NewBulkString(result.Str)
	case engine.ResultInteger:
		return resp.NewInteger(result.Integer)
	case engine.ResultError:
		return resp.NewError(result.Str)
	default:
		return resp.NewError("ERR internal error")
	}
}

// EncodeError wraps a decode/protocol-level error (as opposed to an engine.Result error, which is already
// wire-ready) the way §7 of the spec this decoder implements requires: "ERR " prefixed, as a RESP Error.
func EncodeError(err error) resp.Value {
	msg := err.Error()
	if !strings.HasPrefix(msg, "ERR ") {
		msg = "ERR " + msg
	}
	return resp.NewError(msg)
}
