package remailer

import "github.com/go-remailer/go-remailer/lib/util/logger"

var log = logger.GetLogger()
