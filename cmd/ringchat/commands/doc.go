// Package commands defines the ringchat CLI.
//
// Commands
//
//   - chat            Connect to the relay and open the chat screen (default)
//   - transcript show Print a saved transcript
//   - transcript rm   Delete a saved transcript
//
// # Configuration
//
// Every persistent flag is bound to viper, so it can also come from a
// RINGCHAT_* environment variable (dashes become underscores) or from
// <home>/ringchat.yaml. Log output goes to <home>/ringchat.log; only errors
// reach the terminal.
package commands
