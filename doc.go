/*
Package webserv documents the webserv module.

This module is CLI-first and ships the webserv command:

	go install github.com/jmaris/webserv/cmd/webserv@latest

Most implementation packages in this repository are internal and are not a
stable public Go API.
*/
package webserv
