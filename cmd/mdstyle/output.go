package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"pkt.systems/mdstyle"
)

// writeDocument writes the painter's document in the requested format. The
// structured formats emit the spans currently applied, keyed by category.
func writeDocument(w io.Writer, p *mdstyle.Painter, format string) error {
	switch format {
	case formatJSON:
		res := p.Applied()
		buf, err := json.Marshal(&res)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", buf); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	case formatYAML:
		res := p.Applied()
		node, err := resultNode(&res)
		if err != nil {
			return err
		}
		return encodeYAML(w, node)
	default:
		if err := p.Render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	}
}

// resultNode builds a mapping node so categories keep their declared order.
func resultNode(res *mdstyle.Result) (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	var err error
	res.Each(func(c mdstyle.Category, spans []mdstyle.Span) {
		if err != nil {
			return
		}
		if spans == nil {
			spans = []mdstyle.Span{}
		}
		val := &yaml.Node{}
		if encErr := val.Encode(spans); encErr != nil {
			err = fmt.Errorf("encode yaml: %w", encErr)
			return
		}
		if len(spans) == 0 {
			val.Style = yaml.FlowStyle
		}
		root.Content = append(root.Content, scalarNode(c.String()), val)
	})
	return root, err
}

// writeConfig prints the effective configuration: the enabled switch, the
// theme and the resolved CSS of every category.
func writeConfig(w io.Writer, src mdstyle.ConfigSource, theme string) error {
	cfg, _ := mdstyle.ResolveStyles(src.Values())
	styles := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range mdstyle.Categories() {
		styles.Content = append(styles.Content, scalarNode(c.String()), scalarNode(cfg.Style(c).String()))
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		scalarNode("enabled"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(cfg.Enabled)},
		scalarNode("theme"), scalarNode(theme),
		scalarNode("styles"), styles,
	)
	return encodeYAML(w, root)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func encodeYAML(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func printThemes(w io.Writer) {
	for _, name := range mdstyle.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func printCategories(w io.Writer) {
	for _, c := range mdstyle.Categories() {
		note := ""
		if !mdstyle.Configurable(c) {
			note = "\t(fixed)"
		}
		fmt.Fprintf(w, "%s%s\n", c, note)
	}
}
