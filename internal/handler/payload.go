package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/forgo/raidsign/internal/model"
)

// Placeholders for raid fields missing from a stored document
const (
	unknownRaidName = "Unknown Raid"
	notAvailable    = "N/A"
)

// RosterEmbed builds the showraid payload: one inline field per signup,
// tanks first, then healers, dps and finally unknown roles.
func RosterEmbed(raid *model.Raid, summary *model.RosterSummary, now time.Time) model.Embed {
	embed := model.Embed{
		Title: fmt.Sprintf("%s %s - \"%s\"", raid.Difficulty, raid.DateTime, raid.Name),
		Description: fmt.Sprintf("Signups: **%d/%d/%d** (TANK/HEALER/DPS)",
			summary.TankCount, summary.HealerCount, summary.DPSCount),
		Color:     model.ColorRed,
		Footer:    "Raid Signups",
		Timestamp: now,
	}

	for _, s := range summary.Ordered() {
		embed.Fields = append(embed.Fields, model.EmbedField{
			Name:   s.NameRealm,
			Value:  fmt.Sprintf("**Role:** %s\n**Class:** %s", s.Role, s.Class),
			Inline: true,
		})
	}
	return embed
}

// RaidListEmbed builds the raidlist payload, one block field per raid
func RaidListEmbed(raids []*model.Raid, prefix string, now time.Time) model.Embed {
	embed := model.Embed{
		Title:     "Available Raids",
		Color:     model.ColorGreen,
		Footer:    fmt.Sprintf("Use %sshowraid {name} to see signups for a raid", prefix),
		Timestamp: now,
	}

	for _, r := range raids {
		embed.Fields = append(embed.Fields, model.EmbedField{
			Name: orDefault(r.Name, unknownRaidName),
			Value: fmt.Sprintf("**Difficulty:** %s\n**Date & Time:** %s",
				orDefault(r.Difficulty, notAvailable), orDefault(r.DateTime, notAvailable)),
		})
	}
	return embed
}

// HelpEmbed lists the commands and their arguments
func HelpEmbed(prefix string, commands []*Command) model.Embed {
	embed := model.Embed{
		Title:       "Raid Sign-up Commands",
		Description: fmt.Sprintf("Raids can also be referenced by id: %sshowraid #<id>", prefix),
		Color:       model.ColorBlue,
	}
	for _, c := range commands {
		usage := strings.TrimSpace(prefix + c.Name + " " + c.Args)
		embed.Fields = append(embed.Fields, model.EmbedField{
			Name:  usage,
			Value: c.Summary,
		})
	}
	return embed
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
