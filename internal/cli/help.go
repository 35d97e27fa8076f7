package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprintln(w, `contactrank - priority-aware fuzzy contact search

USAGE
  contactrank [global flags] <command> [args]

GLOBAL FLAGS
  --config <file.yaml>
  --backend file|sqlite|postgres|redis   (default file)
  --contacts <path>                      (file backend, default contacts.json)
  --contacts-format auto|json|jsonl|yaml
  --sqlite-path <dir|file.db>
  --sqlite-driver sqlite|sqlite3
  --pg-dsn <dsn>
  --pg-schema <name>
  --redis-addr <host:port>
  --redis-password <pw>
  --redis-db <n>
  --redis-prefix <prefix>
  --log-level debug|info|warn|error
  --log-format text|json
  --color auto|on|off

COMMANDS
  search <term> [--limit N] [--format pretty|names|json] [--explain]
  import --file <path> [--format auto|json|jsonl|yaml] | --json (JSON lines on stdin)
  list [--format pretty|names|json]
  get --id <id>
  delete --id <id> [--id <id>...]
  serve [--addr :8080]

Settings may also come from CONTACTRANK_* environment variables, e.g.
CONTACTRANK_BACKEND=sqlite. Flags win over the environment, which wins over
the config file.

EXIT CODES
  0 success, 1 error, 2 usage error, 3 no entries found`)
}
