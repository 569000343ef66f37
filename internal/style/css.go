package style

// BaseCSS is the stylesheet every report page starts from.
const BaseCSS = `
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  max-width: 1400px;
  margin: 0 auto;
  padding: 20px;
  background-color: #f5f5f5;
  color: #333;
}
h1 { text-align: center; color: #1b5e20; margin-bottom: 10px; font-size: 2.2em; }
h2 {
  color: white;
  margin-top: 50px;
  padding: 15px;
  background: linear-gradient(90deg, #228B22, #32CD32);
  border-radius: 5px;
}
h3 { color: #1b5e20; margin-top: 30px; border-left: 4px solid #228B22; padding-left: 15px; }
.subtitle { text-align: center; color: #666; font-size: 1.1em; margin-bottom: 30px; }
.analysis-section {
  background: white;
  padding: 20px;
  margin: 20px 0;
  border-radius: 8px;
  box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}
.intro-box {
  background: linear-gradient(135deg, #e8f5e9, #c8e6c9);
  border: 2px solid #4CAF50;
  padding: 20px;
  border-radius: 8px;
  margin: 20px 0;
}
.discovery-box {
  background: linear-gradient(135deg, #c8e6c9, #a5d6a7);
  border: 3px solid #2E7D32;
  padding: 25px;
  border-radius: 10px;
  margin: 25px 0;
}
.discovery-box h3 { color: #1b5e20; margin-top: 0; border: none; padding-left: 0; }
.methodology {
  background: #e8f4fd;
  border-left: 4px solid #1f77b4;
  padding: 15px 20px;
  margin-top: 15px;
  border-radius: 0 8px 8px 0;
}
.methodology h4, .key-observations h4 { margin: 0 0 10px 0; color: #333; }
.key-observations {
  background: #f8f9fa;
  border-left: 4px solid #2ca02c;
  padding: 15px 20px;
  margin-top: 15px;
  border-radius: 0 8px 8px 0;
}
.key-observations ul { margin: 0; padding-left: 20px; }
.key-observations li { margin-bottom: 8px; line-height: 1.5; }
.warning-box {
  background: #fff3cd;
  border-left: 4px solid #ffc107;
  padding: 15px 20px;
  margin-top: 15px;
  border-radius: 0 8px 8px 0;
}
.highlight-box {
  background: linear-gradient(135deg, #fff3e0, #ffe0b2);
  border: 3px solid #ff8c00;
  padding: 25px;
  border-radius: 10px;
  margin: 25px 0;
}
.highlight-box h3 { color: #e65100; margin-top: 0; border: none; padding-left: 0; }
table { border-collapse: collapse; margin: 15px auto; }
th, td { border: 1px solid #ddd; padding: 8px 12px; text-align: left; }
th { background: linear-gradient(180deg, #e8f5e9, #c8e6c9); color: #1b5e20; }
.treatment-table th { background: linear-gradient(180deg, #e8f5e9, #c8e6c9); }
.timestamp { text-align: center; color: #666; margin-top: 40px; font-size: 0.9em; }
`
