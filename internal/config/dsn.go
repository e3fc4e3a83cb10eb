package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DSNValue builds the MySQL DSN from the structured fields, unless an
// explicit dsn string was provided.
func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Params = map[string]string{
		"charset": c.Charset,
		"loc":     "Local",
	}
	return mc.FormatDSN()
}
