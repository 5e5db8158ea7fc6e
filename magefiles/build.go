//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderSources = []string{
	"assets/shaders/triangle.vert",
	"assets/shaders/triangle.frag",
	"assets/shaders/blit.vert",
	"assets/shaders/blit.frag",
}

// Compiles every GLSL stage under assets/shaders to SPIR-V. The engine
// loads the blobs by their stage name, so blit.vert becomes blit.vert.spv.
func (Build) Shaders() error {
	for _, src := range shaderSources {
		if _, err := executeCmd("glslc", withArgs(src, "-o", src+".spv"), withStream()); err != nil {
			return fmt.Errorf("compiling %s: %w", src, err)
		}
	}
	return nil
}

// Builds the testbed binary into bin/prisma.
func (Build) Testbed() error {
	mg.Deps(Build.Shaders)
	_, err := executeCmd("go", withArgs("build", "-o", "bin/prisma", "."), withStream())
	return err
}
