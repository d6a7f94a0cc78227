package config

import "github.com/alecthomas/kong"

type Cli struct {
	Version kong.VersionFlag

	LogLevel   string `kong:"name=log-level,env=LOG_LEVEL,default=info,help='Set log level.'"`
	LogJSON    bool   `kong:"name=log-json,env=LOG_JSON,default=false,help='Enable JSON logging output.'"`
	LogCaller  bool   `kong:"name=log-caller,env=LOG_CALLER,default=false,help='Add file:line of the caller to log output.'"`
	LogNoColor bool   `kong:"name=log-nocolor,env=LOG_NOCOLOR,default=false,help='Disable colorized output.'"`

	List    ListCmd    `kong:"cmd,name=list,help='List the direct children of a path inside an archive.'"`
	Read    ReadCmd    `kong:"cmd,name=read,help='Print the contents of one archive entry to stdout.'"`
	Extract ExtractCmd `kong:"cmd,name=extract,help='Extract entries from an archive into a folder.'"`
}

type ListCmd struct {
	Archive string `kong:"arg,required,name=archive,type=path,help='Archive file. (eg. ./dist.tar.gz)'"`
	Path    string `kong:"arg,optional,name=path,help='Inner path to list. Empty lists the archive root.'"`
}

type ReadCmd struct {
	Archive string `kong:"arg,required,name=archive,type=path,help='Archive file.'"`
	Path    string `kong:"arg,required,name=path,help='Inner path of the entry to read.'"`
}

type ExtractCmd struct {
	Archive string   `kong:"arg,required,name=archive,type=path,help='Archive file.'"`
	Dest    string   `kong:"arg,required,name=dest,type=path,help='Destination folder. (eg. ./dist)'"`
	Paths   []string `kong:"arg,optional,name=paths,help='Inner paths to extract. All entries when omitted.'"`
}
