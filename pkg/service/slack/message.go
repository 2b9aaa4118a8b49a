package slack

import (
	"fmt"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/slack-go/slack"
)

// BuildCriticalBlocks renders the notification for a critical risk.
// link may be empty.
func BuildCriticalBlocks(risk *model.RiskRecord, link string) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncateRunes(":rotating_light: "+risk.Title, 150), true, false),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Área:*\n%s", orDash(risk.Area)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Prioridade:*\n%s", risk.Priority()), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*GUT:*\n%d × %d × %d = *%d*", risk.Gravity, risk.Urgency, risk.Tendency, risk.Score), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status:*\n%s", risk.Status), false, false),
	}
	blocks := []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}

	if risk.Description != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateRunes(risk.Description, maxSectionText), false, false),
			nil, nil,
		))
	}
	if risk.ImmediateAction != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateRunes("*Ação imediata:* "+risk.ImmediateAction, maxSectionText), false, false),
			nil, nil,
		))
	}

	var elements []slack.MixedElement
	if risk.ReporterID != "" {
		elements = append(elements, slack.NewTextBlockObject(slack.MarkdownType, "Reportado por "+risk.ReporterID, false, false))
	}
	if link != "" {
		elements = append(elements, slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("<%s|Abrir no painel>", link), false, false))
	}
	if len(elements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", elements...))
	}

	return blocks
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateRunes cuts s to at most max runes, marking the cut with an ellipsis
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
