// Package bot answers Telegram commands with the day's menu.
//
// Commands:
//
//	/desjejum  breakfast
//	/almoco    lunch
//	/jantar    dinner
//	/hoje      all three meals
//	/help      command list
//
// Any other message is answered with the sender's chat ID, which is how the
// delivery chat for the daily job is discovered.
package bot
