package decode

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/shopspring/decimal"

	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

var errYAMLNode = errors.New("unsupported YAML node")

// yamlDocument converts one parsed document. Anchors are scoped to it.
// Converted anchors are kept so every alias shares one immutable value and
// nested aliases cost one conversion per anchor.
type yamlDocument struct {
	file      *source.File
	anchors   map[string]ast.Node
	converted map[string]value.Value
}

func newYAMLDocument(file *source.File) *yamlDocument {
	return &yamlDocument{
		file:      file,
		anchors:   make(map[string]ast.Node),
		converted: make(map[string]value.Value),
	}
}

// DecodeYAML parses every document in data. Each document's body is one
// item, except a top-level sequence whose elements are yielded one by one.
// Empty documents yield nothing.
func DecodeYAML(ctx context.Context, file *source.File, data []byte) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		parsed, err := parser.ParseBytes(data, 0)
		if err != nil {
			yield(nil, &Error{Input: file.Name, Format: YAML, Err: err})
			return
		}

		for _, doc := range parsed.Docs {
			if doc == nil || doc.Body == nil {
				continue
			}
			document := newYAMLDocument(file)

			body := doc.Body
			if seq, ok := body.(*ast.SequenceNode); ok {
				for _, node := range seq.Values {
					if !document.emit(ctx, node, yield) {
						return
					}
				}
				continue
			}
			if !document.emit(ctx, body, yield) {
				return
			}
		}
	}
}

func (d *yamlDocument) emit(ctx context.Context, node ast.Node, yield func(value.Value, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(nil, err)
		return false
	}
	v, err := d.convert(node, 0)
	if err != nil {
		yield(nil, err)
		return false
	}
	return yield(v, nil)
}

func (d *yamlDocument) convert(node ast.Node, depth int) (value.Value, error) {
	if depth > MaxDepth {
		return nil, d.fail(node, fmt.Errorf("nesting deeper than %d", MaxDepth))
	}
	tag := d.tag(node)

	switch n := node.(type) {
	case nil:
		return value.Nothing(source.UnknownTag()), nil
	case *ast.NullNode:
		return value.Nothing(tag), nil
	case *ast.BoolNode:
		return value.Bool(n.Value, tag), nil
	case *ast.StringNode:
		return value.String(n.Value, tag), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return value.String("", tag), nil
		}
		return value.String(n.Value.Value, tag), nil
	case *ast.IntegerNode:
		v, err := value.Number(n.Value, tag)
		if err != nil {
			return nil, d.fail(node, err)
		}
		return v, nil
	case *ast.FloatNode:
		if n.Token != nil {
			if exact, err := decimal.NewFromString(strings.ReplaceAll(n.Token.Value, "_", "")); err == nil {
				return value.Decimal(exact, tag), nil
			}
		}
		v, err := value.Number(n.Value, tag)
		if err != nil {
			return nil, d.fail(node, err)
		}
		return v, nil
	case *ast.InfinityNode, *ast.NanNode:
		return value.String(node.GetToken().Value, tag), nil
	case *ast.MappingNode:
		fields := value.NewDictionary()
		for _, pair := range n.Values {
			if err := d.insert(fields, pair, depth); err != nil {
				return nil, err
			}
		}
		return value.NewRecord(fields, tag), nil
	case *ast.MappingValueNode:
		fields := value.NewDictionary()
		if err := d.insert(fields, n, depth); err != nil {
			return nil, err
		}
		return value.NewRecord(fields, tag), nil
	case *ast.SequenceNode:
		rows := make([]value.Value, 0, len(n.Values))
		for _, item := range n.Values {
			row, err := d.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return value.NewTable(rows, tag), nil
	case *ast.AnchorNode:
		if n.Name == nil {
			return d.convert(n.Value, depth+1)
		}
		name := n.Name.GetToken().Value
		d.anchors[name] = n.Value
		delete(d.converted, name)
		v, err := d.convert(n.Value, depth+1)
		if err != nil {
			return nil, err
		}
		d.converted[name] = v
		return v, nil
	case *ast.AliasNode:
		if n.Value != nil {
			if v, ok := d.converted[n.Value.GetToken().Value]; ok {
				return v, nil
			}
		}
		target, err := d.resolveAlias(n)
		if err != nil {
			return nil, err
		}
		return d.convert(target, depth+1)
	case *ast.TagNode:
		return d.convertTagged(n, depth)
	case *ast.MappingKeyNode:
		return d.convert(n.Value, depth+1)
	default:
		return nil, d.fail(node, fmt.Errorf("%w: %s", errYAMLNode, node.Type()))
	}
}

func (d *yamlDocument) convertTagged(n *ast.TagNode, depth int) (value.Value, error) {
	tag := d.tag(n)
	switch n.Start.Value {
	case "!!binary":
		text := strings.Join(strings.Fields(scalarText(n.Value)), "")
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, d.fail(n, fmt.Errorf("invalid !!binary: %w", err))
		}
		return value.Binary(data, tag), nil
	case "!!str":
		return value.String(scalarText(n.Value), tag), nil
	default:
		return d.convert(n.Value, depth+1)
	}
}

// insert adds one mapping pair. Merge keys (`<<`) add the fields of the
// merged mappings without overriding keys already present.
func (d *yamlDocument) insert(fields *value.Dictionary, pair *ast.MappingValueNode, depth int) error {
	if pair.Key != nil && pair.Key.IsMergeKey() {
		return d.merge(fields, pair.Value, depth)
	}

	v, err := d.convert(pair.Value, depth+1)
	if err != nil {
		return err
	}
	fields.Insert(d.keyText(pair.Key), v)
	return nil
}

func (d *yamlDocument) merge(fields *value.Dictionary, node ast.Node, depth int) error {
	merged, err := d.convert(node, depth+1)
	if err != nil {
		return err
	}

	switch from := merged.(type) {
	case *value.Record:
		for name, v := range from.Fields() {
			fields.InsertMissing(name, v)
		}
	case *value.Table:
		for _, row := range from.Rows() {
			record, ok := row.(*value.Record)
			if !ok {
				return d.fail(node, errors.New("merge sequence must contain mappings"))
			}
			for name, v := range record.Fields() {
				fields.InsertMissing(name, v)
			}
		}
	default:
		return d.fail(node, fmt.Errorf("cannot merge a %s", merged.TypeName()))
	}
	return nil
}

func (d *yamlDocument) resolveAlias(n *ast.AliasNode) (ast.Node, error) {
	if n.Value == nil {
		return nil, d.fail(n, errors.New("alias without a name"))
	}
	name := n.Value.GetToken().Value
	target, ok := d.anchors[name]
	if !ok {
		return nil, d.fail(n, fmt.Errorf("unknown anchor %q", name))
	}
	return target, nil
}

func (d *yamlDocument) keyText(key ast.MapKeyNode) string {
	if key == nil {
		return ""
	}
	switch k := key.(type) {
	case *ast.StringNode:
		return k.Value
	case *ast.MappingKeyNode:
		return scalarText(k.Value)
	case *ast.AliasNode:
		if target, err := d.resolveAlias(k); err == nil {
			return scalarText(target)
		}
	}
	return scalarText(key)
}

// scalarText is the source text of a scalar node with quoting removed.
func scalarText(node ast.Node) string {
	switch n := node.(type) {
	case nil:
		return ""
	case *ast.StringNode:
		return n.Value
	case *ast.LiteralNode:
		if n.Value == nil {
			return ""
		}
		return n.Value.Value
	case *ast.AnchorNode:
		return scalarText(n.Value)
	case *ast.TagNode:
		return scalarText(n.Value)
	}
	if tok := node.GetToken(); tok != nil {
		return tok.Value
	}
	return node.String()
}

func (d *yamlDocument) tag(node ast.Node) source.Tag {
	if node == nil {
		return source.UnknownTag()
	}
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return source.Tag{Anchor: d.file.Name}
	}
	start := d.file.Offset(source.Location{Line: tok.Position.Line, Column: tok.Position.Column})
	return d.file.Tag(start, start+len(tok.Value))
}

func (d *yamlDocument) fail(node ast.Node, err error) error {
	return &Error{Input: d.file.Name, Span: d.tag(node).Span, Format: YAML, Err: err}
}
