// Package embedded carries the artifacts shipped inside the binary: the two
// janitor Lambda handlers and the instance cloud-init script.
package embedded

import _ "embed"

//go:embed patch_scan.py
var PatchScanHandler []byte

//go:embed docker_prune.py
var DockerPruneHandler []byte

//go:embed userdata.sh.tmpl
var UserDataTemplate string
