// Command regrab deletes a bad film or episode download from Radarr or Sonarr
// and asks for a fresh one.
package main

func main() {
	Execute()
}
