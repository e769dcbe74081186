// Package config loads and saves the nmwifi configuration file.
//
// The file lives at $XDG_CONFIG_HOME/nmwifi/config.yaml (falling back to
// ~/.config/nmwifi/config.yaml):
//
//	version: 1
//	nmcli:
//	  command: nmcli
//	  timeout: 30s
//	policy:
//	  min_password_length: 8
//	  rescan_on_refresh: false
//	logging:
//	  level: ""
//	  file: ""
//	ui:
//	  alt_screen: true
//	  mask_password: true
//
// Command-line flags override individual values after loading.
package config
