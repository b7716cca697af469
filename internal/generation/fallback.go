package generation

import "strings"

type skeleton struct {
	comment string
	body    string
}

var skeletons = map[string]skeleton{
	"python": {"#", `def main():
    """Main function"""
    # Implementation here
    pass

if __name__ == "__main__":
    main()`},
	"javascript": {"//", `function main() {
    // Implementation here
}

main();`},
	"java": {"//", `public class Solution {
    public static void main(String[] args) {
        // Implementation here
    }
}`},
	"cpp": {"//", `#include <iostream>
using namespace std;

int main() {
    // Implementation here
    return 0;
}`},
	"c": {"//", `#include <stdio.h>

int main() {
    // Implementation here
    return 0;
}`},
	"sql": {"--", `SELECT * FROM table_name
WHERE condition = true
LIMIT 10;`},
}

// Fallback renders the deterministic skeleton for a language: the prompt as
// a comment followed by an empty entry point. Unknown languages get the
// python skeleton. It never calls the model.
func Fallback(prompt, languageID string) string {
	s, ok := skeletons[languageID]
	if !ok {
		s = skeletons["python"]
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		b.WriteString(s.comment)
		b.WriteString(" ")
		b.WriteString(strings.TrimRight(line, " \t\r"))
		b.WriteString("\n")
	}
	b.WriteString(s.body)
	return b.String()
}
