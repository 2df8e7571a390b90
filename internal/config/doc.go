// Package config loads ru-menu settings from flags, the environment, an
// optional ru-menu.yaml and an optional .env file.
//
// Environment variables use the RU_MENU_ prefix (RU_MENU_DATA_DIR,
// RU_MENU_SEND_AT, ...). The bot token and delivery chat also accept the
// bare TOKEN and CHAT_ID names.
package config
