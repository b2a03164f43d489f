// Package helpers provides chat-level test utilities.
//
// A Chat drives any command handler the way a Discord channel would:
//
//	chat := helpers.NewChat(t, dispatcher)
//	chat.ExpectText("!newraid Heroic Fri Naxx", `Raid "Naxx" created successfully!`)
//	embed := chat.Embed("!showraid Naxx")
//	chat.ExpectSilence("just chatting")
//
// # Time Helpers
//
//	clock := helpers.FixedClock(time.Date(2024, 11, 8, 20, 0, 0, 0, time.UTC))
package helpers
