package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// NodeConf holds the RPC settings found in a syscoin.conf file.
type NodeConf struct {
	RPCUser     string
	RPCPassword string
	RPCPort     int
}

// LoadNodeConf parses the key=value lines of a syscoin.conf file. Section
// headers, comments and unknown keys are ignored; later keys win.
func LoadNodeConf(path string) (NodeConf, error) {
	file, err := os.Open(path)
	if err != nil {
		return NodeConf{}, err
	}
	defer file.Close()

	var conf NodeConf
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "rpcuser":
			conf.RPCUser = value
		case "rpcpassword":
			conf.RPCPassword = value
		case "rpcport":
			if port, err := strconv.Atoi(value); err == nil {
				conf.RPCPort = port
			}
		}
	}
	return conf, scanner.Err()
}

// apply fills the settings the environment and config file left empty.
func (n NodeConf) apply(s *Syscoin) {
	if s.Username == "" {
		s.Username = n.RPCUser
	}
	if s.Password == "" {
		s.Password = n.RPCPassword
	}
	if s.Port == 0 {
		s.Port = n.RPCPort
	}
}
