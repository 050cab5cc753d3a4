package stats

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
	"gopkg.in/yaml.v3"
)

// Render 把報表寫到 w
type Render[T any] interface {
	Write(w io.Writer, v *T) error
}

type (
	StatReportRender = Render[StatReport]
	EstimatorRender  = Render[EstimatorPlayers]
)

// JsonRender 每份報表一行 JSON；Indent 不為空時縮排輸出
type JsonRender[T any] struct {
	Indent string
}

func (jr *JsonRender[T]) Write(w io.Writer, v *T) error {
	enc := json.NewEncoder(w)
	if jr.Indent != "" {
		enc.SetIndent("", jr.Indent)
	}
	return enc.Encode(v)
}

// YAMLRender 最內層的一維陣列輸出成 [a, b, c]，外層維度維持展開
type YAMLRender[T any] struct{}

func (yr *YAMLRender[T]) Write(w io.Writer, v *T) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return errs.Wrap(err, "yaml encode failed")
	}
	flowLeafSequences(&node)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// 舊名稱，cmd 與測試沿用
type (
	JsonStatReportRender = JsonRender[StatReport]
	YAMLStatReportRender = YAMLRender[StatReport]
	JsonEstimatorRender  = JsonRender[EstimatorPlayers]
	YAMLEstimatorRender  = YAMLRender[EstimatorPlayers]
)

// RenderByName 依格式名稱（json / yaml）取得報表輸出器
func RenderByName[T any](format string) (Render[T], error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return &JsonRender[T]{Indent: "  "}, nil
	case "yaml", "yml":
		return &YAMLRender[T]{}, nil
	default:
		return nil, errs.Warnf("unknown report format: %q", format)
	}
}

// flowLeafSequences 回傳 n 本身是否為 sequence，讓上層判斷自己是不是最內層
func flowLeafSequences(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	hasChildSeq := false
	for _, c := range n.Content {
		if flowLeafSequences(c) {
			hasChildSeq = true
		}
	}
	if n.Kind != yaml.SequenceNode {
		return false
	}
	if !hasChildSeq {
		n.Style = yaml.FlowStyle
	}
	return true
}
