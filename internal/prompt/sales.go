// Package prompt renders LLM system prompts from the agent character.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brolli/brolli/internal/model"
)

func bullets(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "- " + l
	}
	return strings.Join(out, "\n")
}

// BuildSalesSystemPrompt renders the sales agent persona. Optional
// positioning blocks and canonical links are emitted only when present.
func BuildSalesSystemPrompt(c model.Character) string {
	p := c.Program
	wallet := "Multiple per wallet (not enforced)."
	if p.OnePerWallet {
		wallet = "One license per wallet (enforced onchain)."
	}

	lines := []string{
		fmt.Sprintf("You are %s.", c.Name),
		"",
		"Product: " + c.ProductName,
		"Tagline: " + c.Tagline,
		"",
		"Elevator pitch:",
		bullets(c.ElevatorPitch),
		"",
		"Promotion and constraints:",
		bullets([]string{
			p.PromotionName,
			fmt.Sprintf("List price: $%s USD", strconv.FormatFloat(p.ListPriceUSD, 'f', -1, 64)),
			fmt.Sprintf("Max licenses: %d", p.MaxLicenses),
			wallet,
			p.TeamPurchases,
			p.Timing,
		}),
		"",
		"Payments (be precise about staging):",
		bullets(c.AcceptsPayment),
		"",
		"Key facts:",
		bullets(c.KeyFacts),
		"",
		"What it is:",
		bullets(c.WhatItIs),
		"",
		"What it is NOT:",
		bullets(c.WhatItIsNot),
		"",
	}

	if pos := c.Positioning; pos != nil {
		sections := []struct {
			title string
			items []string
		}{
			{"Positioning: dirty IP risk", pos.DirtyIP},
			{"Positioning: umbrella protection while you ship", pos.UmbrellaProtection},
			{"Positioning: patent strategy vs distraction", pos.PatentStrategy},
			{"Cautionary examples (keep phrasing safe):", pos.CautionaryExamples},
		}
		for _, s := range sections {
			if len(s.items) > 0 {
				lines = append(lines, s.title, bullets(s.items), "")
			}
		}
	}

	if l := c.CanonicalLinks; l != nil {
		var refs []string
		for _, ref := range []struct{ label, url string }{
			{"Patent strategy", l.PatentStrategy},
			{"Business process patents", l.BusinessProcessPatents},
			{"Blockchain patent landscape", l.BlockchainPatentLandscape},
			{"Dirty IP", l.DirtyIP},
			{"Derisking playbook", l.DeriskingPlaybook},
			{"IP FAQ", l.IPFAQ},
		} {
			if ref.url != "" {
				refs = append(refs, ref.label+": "+ref.url)
			}
		}
		lines = append(lines,
			"Canonical links (when users ask about patents/IP, cite these URLs explicitly):",
			bullets(refs),
			"",
		)
	}

	faq := make([]string, len(c.FAQ))
	for i, item := range c.FAQ {
		faq[i] = "Q: " + item.Q + "\nA: " + item.A
	}

	lines = append(lines,
		"FAQ (prefer these answers; you can adapt wording but keep claims consistent):",
		strings.Join(faq, "\n\n"),
		"",
		"Disclaimers (include when discussing legal coverage, risk, enforceability, or if the user asks for legal advice):",
		bullets(c.Disclaimers),
		"",
		"Style rules:",
		"Tone:\n"+bullets(c.Style.Tone),
		"Do:\n"+bullets(c.Style.Do),
		"Don't:\n"+bullets(c.Style.Dont),
		"",
		"Call-to-action suggestions (use sparingly, not every message):",
		bullets(c.CTA),
		"",
		"Conversation rules:",
		"- Be concise and technical. Use bullets when listing steps or constraints.",
		"- Ask 1 clarifying question when it materially changes the answer (e.g. team size, target chain, whether they already have wallets).",
		"- Never claim blanket IP protection or guaranteed outcomes.",
		"- If asked for legal advice: refuse and suggest consulting counsel; offer to explain how the product is intended to work.",
		"- If the user asks about patent strategy or business process patents, cite the canonical link(s) above so they have a reference they can share with teammates/investors.",
	)

	return strings.Join(lines, "\n")
}
