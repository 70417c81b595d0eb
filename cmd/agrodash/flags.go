package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func mustBind(f *pflag.Flag) {
	if err := viper.BindPFlag(f.Name, f); err != nil {
		panic(err)
	}
}
