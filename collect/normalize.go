package collect

import (
	"strings"

	"github.com/packster/packster"
)

// System packages that never make sense to migrate: base OS plumbing and
// the package managers themselves.
var systemPackages = map[string]struct{}{}

func init() {
	for _, n := range []string{
		// Debian/Ubuntu base system.
		"apt", "dpkg", "base-files", "base-passwd", "bash", "coreutils",
		"dash", "debianutils", "diffutils", "findutils", "grep", "gzip",
		"hostname", "init-system-helpers", "libc-bin", "libpam-modules",
		"libpam-runtime", "login", "mount", "passwd", "perl-base",
		"sed", "sysvinit-utils", "tar", "util-linux", "zlib1g",
		"ubuntu-minimal", "ubuntu-standard", "ubuntu-server",
		// Python tooling that ships with every interpreter install.
		"pip", "setuptools", "wheel", "distlib", "filelock", "platformdirs",
		"six", "pyparsing", "packaging", "markupsafe", "jinja2", "itsdangerous",
		"click", "blinker", "werkzeug", "urllib3", "requests", "certifi",
		"charset-normalizer", "idna", "python-dateutil", "pytz",
		// Node tooling.
		"npm", "node", "npx", "corepack", "yarn", "pnpm",
		// Rust tooling.
		"cargo", "rustc", "rustup", "rustfmt", "clippy",
		// Default gems.
		"bundler", "rake", "rdoc", "json", "minitest", "test-unit",
		"bigdecimal", "io-console", "psych", "stringio", "strscan",
	} {
		systemPackages[n] = struct{}{}
	}
}

// Include reports whether the item is worth carrying into mapping.
func Include(i packster.NormalizedItem) bool {
	name := strings.ToLower(i.Name)
	if _, ok := systemPackages[name]; ok {
		return false
	}
	switch {
	case strings.HasPrefix(name, "lib"),
		strings.HasSuffix(name, "-dev"),
		strings.HasSuffix(name, "-dbg"),
		strings.HasSuffix(name, "-doc"):
		return false
	}
	return true
}

// Exclude filters out system and library packages.
func Exclude(items []packster.NormalizedItem) []packster.NormalizedItem {
	out := items[:0]
	for _, i := range items {
		if Include(i) {
			out = append(out, i)
		}
	}
	return out
}

// Dedup removes duplicates keyed by package manager and lowercased name.
// When a duplicate appears, the entry with the richer metadata bag wins.
func Dedup(items []packster.NormalizedItem) []packster.NormalizedItem {
	type key struct {
		pm   packster.PackageManager
		name string
	}
	idx := make(map[key]int, len(items))
	var out []packster.NormalizedItem
	for _, i := range items {
		k := key{i.PM, strings.ToLower(i.Name)}
		at, ok := idx[k]
		if !ok {
			idx[k] = len(out)
			out = append(out, i)
			continue
		}
		if len(i.Metadata) > len(out[at].Metadata) {
			out[at] = i
		}
	}
	return out
}

// Category keyword sets, most specific buckets first.
var categories = []struct {
	name  string
	names map[string]struct{}
}{
	{"development", set("git", "vim", "neovim", "tmux", "htop", "tree",
		"cmake", "make", "autoconf", "automake", "pkg-config", "gcc",
		"g++", "clang", "lldb", "gdb", "valgrind", "strace", "ltrace")},
	{"utilities", set("curl", "wget", "jq", "ripgrep", "fd", "bat", "eza",
		"fzf", "unzip", "zip", "rsync", "ncdu", "httpie", "nmap",
		"watch", "parallel")},
	{"languages", set("python", "python3", "node", "nodejs", "go", "rust",
		"ruby", "java", "kotlin", "scala", "clojure", "haskell", "ocaml",
		"erlang", "elixir", "crystal", "nim", "zig")},
	{"build_tools", set("maven", "gradle", "sbt", "poetry", "pipenv",
		"conda", "mamba")},
	{"databases", set("postgresql", "mysql", "sqlite", "redis", "mongodb",
		"cassandra", "elasticsearch", "influxdb")},
	{"containers", set("docker", "kubernetes", "helm", "kubectl",
		"minikube", "kind", "docker-compose", "podman", "buildah",
		"skopeo")},
	{"cloud", set("awscli", "terraform", "gcloud", "az", "doctl",
		"istioctl", "linkerd", "consul", "vault")},
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Categorize names the category bucket for a package, or "other".
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categories {
		if _, ok := c.names[lower]; ok {
			return c.name
		}
	}
	return "other"
}

var packageTypes = map[packster.PackageManager]string{
	packster.APT:   "system",
	packster.Pip:   "python",
	packster.NPM:   "nodejs",
	packster.Cargo: "rust",
	packster.Gem:   "ruby",
}

// Enrich fills in missing categories and tags each item with its source
// ecosystem. Items are copied, never mutated in place.
func Enrich(items []packster.NormalizedItem) []packster.NormalizedItem {
	out := make([]packster.NormalizedItem, 0, len(items))
	for _, i := range items {
		if i.Category == "" {
			i = i.WithCategory(Categorize(i.Name))
		}
		if t, ok := packageTypes[i.PM]; ok {
			i = i.WithMetadata("package_type", t)
		}
		out = append(out, i)
	}
	return out
}
