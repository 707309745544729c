package config

import (
	"bytes"
	"fmt"
)

// Template renders a commented config file holding the values of c.
func (c *Config) Template() ([]byte, error) {
	body, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("# cheatfind configuration\n")
	buf.WriteString("#\n")
	buf.WriteString("# corpus_path  directory searched for corpus files\n")
	fmt.Fprintf(&buf, "# height       result rows under the prompt (default %d)\n", DefaultHeight)
	fmt.Fprintf(&buf, "# limit        results kept per query (default %d)\n", DefaultLimit)
	buf.WriteString("# extension    suffix marking corpus files\n")
	buf.WriteString("# tldr_url     archive downloaded by `cheatfind update`\n")
	buf.WriteString("# platform     tldr page folder kept next to common\n")
	buf.WriteString("# color        auto, always or never\n")
	buf.WriteString("#\n")
	buf.WriteString("# Every key can be overridden with CHEATFIND_<KEY>, e.g. CHEATFIND_HEIGHT=15.\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
