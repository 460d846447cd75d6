package constant

import "os"

// <NodeDir>/                    (e.g., /home/operator/.borc)
// └── config/
//	└── borc_config.json
// └── keystore/
//	└── <name>.cosmos.json
//	└── <name>.eth.json

const (
	NodeDir = ".borc"

	ConfigSubdir   = "config"
	ConfigFileName = "borc_config.json"

	KeystoreSubdir = "keystore"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir
